// Package ratelimit throttles repeated login attempts per key.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Limiter decides whether another attempt for key may proceed.
type Limiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset forgets previous attempts, e.g. after a successful login.
	Reset(ctx context.Context, key string) error
}

// Config sets how many attempts are permitted per window.
type Config struct {
	Attempts int
	Window   time.Duration
}

// Noop never limits.
type Noop struct{}

func (Noop) Allow(context.Context, string) (bool, error) { return true, nil }
func (Noop) Reset(context.Context, string) error         { return nil }

// normalizeKey makes keys case-insensitive so "A@x.io" and "a@x.io" share a
// budget.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
