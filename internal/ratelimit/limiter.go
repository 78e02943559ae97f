// Package ratelimit implements a token bucket: Acquire blocks until a
// token is available, refilling proportional to elapsed time up to
// capacity.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCapacity and DefaultWindow are the gateway's conservative defaults.
const (
	DefaultCapacity = 100
	DefaultWindow   = 60 * time.Second
)

// Limiter is a token bucket: capacity tokens refilled continuously over
// window. It wraps golang.org/x/time/rate, whose Limiter already implements
// exactly this refill-proportional-to-elapsed-time algorithm with a single
// internal lock and context-aware waiting.
type Limiter struct {
	capacity int
	window   time.Duration
	inner    *rate.Limiter
}

// New creates a Limiter with the given capacity and refill window.
func New(capacity int, window time.Duration) *Limiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if window <= 0 {
		window = DefaultWindow
	}
	perSecond := rate.Limit(float64(capacity) / window.Seconds())
	return &Limiter{
		capacity: capacity,
		window:   window,
		inner:    rate.NewLimiter(perSecond, capacity),
	}
}

// Acquire blocks until a token is available, then consumes one. If ctx ends
// while waiting, it returns an error wrapping ctx.Err() without consuming a
// token; if ctx's deadline falls before the next token would accrue, it
// returns an error at once without waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.inner.Wait(ctx); err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}
	return nil
}

// Snapshot reports the current token count and configured capacity, used by
// the health probe.
type Snapshot struct {
	Capacity        int
	TokensAvailable float64
	UtilizationPct  float64
}

// Snapshot returns the current bucket state without mutating it.
func (l *Limiter) Snapshot() Snapshot {
	tokens := l.inner.Tokens()
	if tokens > float64(l.capacity) {
		tokens = float64(l.capacity)
	}
	if tokens < 0 {
		tokens = 0
	}
	used := float64(l.capacity) - tokens
	utilization := 0.0
	if l.capacity > 0 {
		utilization = (used / float64(l.capacity)) * 100
	}
	return Snapshot{
		Capacity:        l.capacity,
		TokensAvailable: tokens,
		UtilizationPct:  utilization,
	}
}
