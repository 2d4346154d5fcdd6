package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	"github.com/argentum-atelier/storefront-backend/pkg/redis"
)

// PaymentSession is the per-session payment flow state. It moves
// Selecting -> Unconnected -> Connected -> Completed; failed connects and
// transfers never move it backwards.
type PaymentSession struct {
	State         enums.PaymentState `json:"state"`
	AssetSymbol   string             `json:"asset_symbol,omitempty"`
	WalletAddress string             `json:"wallet_address,omitempty"`
	OrderID       string             `json:"order_id,omitempty"`
}

func newPaymentSession() *PaymentSession {
	return &PaymentSession{State: enums.PaymentStateSelecting}
}

// SessionRepository persists payment sessions. Load returns a fresh
// Selecting-state session when none is stored.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*PaymentSession, error)
	Save(ctx context.Context, sessionID string, session *PaymentSession) error
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository builds the Redis-backed payment session store.
func NewRedisSessionRepository(client *redis.Client) (SessionRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisSessionRepository{client: client}, nil
}

func (r *redisSessionRepository) Load(ctx context.Context, sessionID string) (*PaymentSession, error) {
	raw, err := r.client.Get(ctx, r.client.PaymentKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return newPaymentSession(), nil
		}
		return nil, fmt.Errorf("load payment session: %w", err)
	}

	var session PaymentSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode payment session: %w", err)
	}
	if !session.State.IsValid() {
		session.State = enums.PaymentStateSelecting
	}
	return &session, nil
}

func (r *redisSessionRepository) Save(ctx context.Context, sessionID string, session *PaymentSession) error {
	if session == nil {
		session = newPaymentSession()
	}
	encoded, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode payment session: %w", err)
	}
	if err := r.client.Set(ctx, r.client.PaymentKey(sessionID), string(encoded), 0); err != nil {
		return fmt.Errorf("save payment session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.client.PaymentKey(sessionID)); err != nil {
		return fmt.Errorf("delete payment session: %w", err)
	}
	return nil
}
