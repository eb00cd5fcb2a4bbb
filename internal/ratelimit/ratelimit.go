package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request from key is allowed inside
// the current window. Implementations are safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config bounds requests per key: at most Max inside each Window.
type Config struct {
	Max    int
	Window time.Duration
}

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter is a fixed-window counter held in process memory,
// keyed by client address. Counters reset at the window boundary and
// on process restart.
type MemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	now     func() time.Time
	entries map[string]*entry
}

type Option func(*MemoryLimiter)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) { l.now = now }
}

func NewMemory(cfg Config, opts ...Option) *MemoryLimiter {
	l := &MemoryLimiter{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.cfg.Window {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return l.cfg.Max >= 1, nil
	}

	e.count++
	return e.count <= l.cfg.Max, nil
}

// Cleanup drops keys whose window has already elapsed.
func (l *MemoryLimiter) Cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, e := range l.entries {
		if now.Sub(e.windowStart) >= l.cfg.Window {
			delete(l.entries, k)
		}
	}
}

// StartJanitor cleans up expired keys periodically until ctx is done.
func (l *MemoryLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
