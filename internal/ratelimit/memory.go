package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	mu   sync.Mutex
	hits []time.Time
}

// MemoryStore keeps hit timestamps per key in process memory. Keys are never
// evicted, so the key set grows with the number of distinct clients.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]*bucket{}, now: time.Now}
}

// WithClock replaces the time source
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) bucket(key string) *bucket {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{}
		m.buckets[key] = b
	}
	return b
}

func (m *MemoryStore) Hit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	b := m.bucket(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-window)
	kept := b.hits[:0]
	for _, ts := range b.hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	b.hits = kept

	if len(b.hits) >= limit {
		return false, nil
	}
	b.hits = append(b.hits, now)
	return true, nil
}
