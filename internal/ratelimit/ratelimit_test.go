package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestLimiter_ThresholdAndWindow(t *testing.T) {
	stores := map[string]func(*clock) Store{
		"memory": func(c *clock) Store { return NewMemoryStore().WithClock(c.Now) },
		"redis":  func(c *clock) Store { return newRedisStore(t).WithClock(c.Now) },
	}
	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			c := newClock()
			l := New(mk(c), 3, time.Minute)
			ctx := context.Background()

			for i := 0; i < 3; i++ {
				ok, err := l.Allow(ctx, "10.0.0.1")
				require.NoError(t, err)
				assert.True(t, ok, "request %d", i+1)
			}
			ok, err := l.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.False(t, ok, "4th request inside the window")

			ok, err = l.Allow(ctx, "10.0.0.2")
			require.NoError(t, err)
			assert.True(t, ok, "other clients are unaffected")

			c.Advance(time.Minute + time.Millisecond)
			ok, err = l.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.True(t, ok, "allowed again once the window has passed")
		})
	}
}

func TestLimiter_SlidingNotFixed(t *testing.T) {
	c := newClock()
	l := New(NewMemoryStore().WithClock(c.Now), 2, time.Minute)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	c.Advance(40 * time.Second)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
	c.Advance(30 * time.Second)

	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok, "first hit has left the window")
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok, "second and third hit are still inside")
}

func TestMemoryStore_ConcurrentSameKey(t *testing.T) {
	l := New(NewMemoryStore(), 50, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(ctx, "shared"); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, admitted)
}

func TestRedisStore_KeyExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStore(client)

	ok, err := s.Hit(context.Background(), "1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("ratelimit:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	assert.False(t, mr.Exists("ratelimit:1.2.3.4"))
}

func TestRedisStore_Error(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisStore(client).Hit(context.Background(), "k", 1, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit script")
}

func ExampleLimiter() {
	l := New(NewMemoryStore(), 2, time.Minute)
	for i := 0; i < 3; i++ {
		ok, _ := l.Allow(context.Background(), "client")
		fmt.Println(ok)
	}
	// Output:
	// true
	// true
	// false
}
