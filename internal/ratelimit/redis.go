package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window counter shared by every instance.
// Key format: login:<normalized key>
type Redis struct {
	client redis.Cmdable
	cfg    Config
}

// NewRedis creates a Redis-backed limiter.
func NewRedis(client redis.Cmdable, cfg Config) *Redis {
	return &Redis{client: client, cfg: cfg}
}

// Allow increments the counter for key. The window starts with the first
// attempt; INCR and EXPIRE NX run in one transaction so a counter never
// outlives its window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.key(key)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, r.cfg.Window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count login attempt: %w", err)
	}
	return incr.Val() <= int64(r.cfg.Attempts), nil
}

// Reset deletes the counter for key.
func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}

func (r *Redis) key(key string) string {
	return "login:" + normalizeKey(key)
}
