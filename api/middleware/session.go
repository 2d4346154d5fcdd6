package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/argentum-atelier/storefront-backend/pkg/logger"
)

// SessionIDHeader carries the shopper's session identity. Clients mint one on
// first load and replay it; the middleware mints one for clients that don't
// and always echoes the effective value back.
const SessionIDHeader = "X-Session-ID"

type contextKey string

const ctxSessionID contextKey = "session_id"

func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionIDHeader)
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionIDHeader, sessionID)

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session id seeded by Session, or "".
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}
