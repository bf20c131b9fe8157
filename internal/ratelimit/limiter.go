// Package ratelimit paces outbound API calls with a fixed-window budget.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultRequests is the per-window budget the Notion API tolerates on
	// average.
	DefaultRequests = 3
	// DefaultInterval is the length of one window.
	DefaultInterval = time.Second
)

// Limiter admits at most max calls per fixed window. Calls over budget
// wait for the next window; they are never dropped. Waiters are admitted
// in the order they acquire the lock, so a single caller issuing calls in
// sequence keeps its order.
type Limiter struct {
	max      int
	interval time.Duration

	mu          sync.Mutex
	windowStart time.Time
	count       int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a limiter admitting requests calls per interval.
// Non-positive arguments fall back to the defaults.
func New(requests int, interval time.Duration) *Limiter {
	if requests <= 0 {
		requests = DefaultRequests
	}

	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Limiter{
		max:      requests,
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the call fits in the current window or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		now := l.now()
		if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.interval {
			l.windowStart = now
			l.count = 0
		}

		if l.count < l.max {
			l.count++
			return nil
		}

		// Holding the lock while sleeping keeps admission order strict.
		if err := l.sleep(ctx, l.interval-now.Sub(l.windowStart)); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
