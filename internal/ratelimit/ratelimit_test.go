package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"roobaroo/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(max int, window time.Duration) (*ratelimit.MemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := ratelimit.NewMemory(
		ratelimit.Config{Max: max, Window: window},
		ratelimit.WithClock(clock.Now),
	)
	return l, clock
}

func TestMemoryLimiter_RejectsOverLimit(t *testing.T) {
	l, _ := newTestLimiter(5, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := l.Allow(ctx, "198.51.100.7")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, allowed, "6th request inside the window should be rejected")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 15*time.Minute)
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, allowed, "a different address has its own counter")
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	l, clock := newTestLimiter(2, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := l.Allow(ctx, "198.51.100.7")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, err := l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Just short of the boundary the counter still holds.
	clock.Advance(15*time.Minute - time.Second)
	allowed, err = l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, allowed)

	clock.Advance(time.Second)
	allowed, err = l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.True(t, allowed, "counter resets at the window boundary")
}

func TestMemoryLimiter_ZeroMaxRejectsEverything(t *testing.T) {
	l, _ := newTestLimiter(0, 15*time.Minute)

	allowed, err := l.Allow(context.Background(), "198.51.100.7")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestMemoryLimiter_CleanupDropsExpiredKeys(t *testing.T) {
	l, clock := newTestLimiter(1, 15*time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)
	l.Cleanup()

	// A fresh window after cleanup behaves like a first request.
	allowed, err := l.Allow(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.True(t, allowed)
}
