package notifications

import (
	"context"

	"github.com/argentum-atelier/storefront-backend/pkg/logger"
)

// Notifier receives human-readable cart feedback messages. The cart service
// fires one per mutation; implementations decide how to surface it.
type Notifier interface {
	CartUpdated(ctx context.Context, sessionID, message string)
}

type logNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier returns a Notifier that emits cart messages as structured logs.
func NewLogNotifier(logg *logger.Logger) Notifier {
	return &logNotifier{logg: logg}
}

func (n *logNotifier) CartUpdated(ctx context.Context, sessionID, message string) {
	if n.logg == nil {
		return
	}
	ctx = n.logg.WithSessionID(ctx, sessionID)
	ctx = n.logg.WithField(ctx, "event", "cart.updated")
	n.logg.Info(ctx, message)
}

// NopNotifier discards all messages.
type NopNotifier struct{}

func (NopNotifier) CartUpdated(context.Context, string, string) {}
