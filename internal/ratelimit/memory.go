package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sweepEvery = 256

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory is a per-process token bucket limiter. Each key gets a bucket of
// Attempts tokens refilled evenly over Window.
type Memory struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	calls   int
}

// NewMemory creates an in-memory limiter.
func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Allow consumes one token for key.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	key = normalizeKey(key)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls%sweepEvery == 0 {
		m.sweep(now)
	}

	e, ok := m.entries[key]
	if !ok {
		every := m.cfg.Window / time.Duration(max(m.cfg.Attempts, 1))
		e = &entry{limiter: rate.NewLimiter(rate.Every(every), m.cfg.Attempts)}
		m.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1), nil
}

// Reset drops the bucket for key.
func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, normalizeKey(key))
	m.mu.Unlock()
	return nil
}

// sweep removes buckets idle for a full window; they would be full again.
func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if now.Sub(e.lastSeen) >= m.cfg.Window {
			delete(m.entries, k)
		}
	}
}
