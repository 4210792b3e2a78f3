// Package ratelimit implements a sliding-window request limiter keyed by client.
package ratelimit

import (
	"context"
	"time"
)

// Store keeps the hit history per key.
type Store interface {
	// Hit records a hit and admits it when fewer than limit earlier hits fall
	// inside the window ending now. Rejected hits are not recorded.
	Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Limiter admits at most limit requests per key within any window.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

func New(store Store, limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow reports whether the request identified by key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.store.Hit(ctx, key, l.limit, l.window)
}

// Window returns the sliding window length
func (l *Limiter) Window() time.Duration {
	return l.window
}
