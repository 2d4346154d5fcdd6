package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/argentum-atelier/storefront-backend/pkg/redis"
)

// Repository persists a session's cart lines. Restoration must preserve
// insertion order and quantities exactly.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Delete(ctx context.Context, sessionID string) error
}

type redisRepository struct {
	client *redis.Client
}

// NewRedisRepository builds the Redis-backed cart repository.
func NewRedisRepository(client *redis.Client) (Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisRepository{client: client}, nil
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	raw, err := r.client.Get(ctx, r.client.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Set(ctx, r.client.CartKey(sessionID), string(encoded), 0); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
