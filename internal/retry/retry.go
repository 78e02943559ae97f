// Package retry implements the bounded exponential backoff wrapper
// network errors, timeouts, 429, and 502/503/504
// are retried up to max_attempts times; a 429's Retry-After header, when
// present, is honored verbatim instead of the backoff formula.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Defaults are conservative enough for vendor API rate limits.
const (
	DefaultMaxAttempts = 4
	DefaultBaseWait    = 1 * time.Second
	DefaultMaxWait     = 30 * time.Second
)

// Classification describes how a retry wrapper should react to an error.
type Classification struct {
	Retryable  bool
	RetryAfter time.Duration // zero means "use the backoff formula"
}

// Classifier decides whether an error returned by the wrapped function is
// retryable, and whether it names an explicit wait (e.g. HTTP Retry-After).
type Classifier func(error) Classification

// Retrier runs a function with bounded exponential backoff.
type Retrier struct {
	maxAttempts int
	baseWait    time.Duration
	maxWait     time.Duration
	rand        func() float64
	sleep       func(context.Context, time.Duration) error
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(r *Retrier) { r.maxAttempts = n }
}

// WithBaseWait overrides DefaultBaseWait.
func WithBaseWait(d time.Duration) Option {
	return func(r *Retrier) { r.baseWait = d }
}

// WithMaxWait overrides DefaultMaxWait.
func WithMaxWait(d time.Duration) Option {
	return func(r *Retrier) { r.maxWait = d }
}

// New creates a Retrier with the given defaults.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		maxAttempts: DefaultMaxAttempts,
		baseWait:    DefaultBaseWait,
		maxWait:     DefaultMaxWait,
		rand:        rand.Float64,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do invokes fn up to maxAttempts times, sleeping between attempts according
// to classify's verdict. It returns the last error once attempts are
// exhausted or classify reports the error is not retryable.
func (r *Retrier) Do(ctx context.Context, fn func(context.Context) error, classify Classifier) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		class := classify(lastErr)
		if !class.Retryable || attempt == r.maxAttempts {
			return lastErr
		}

		wait := class.RetryAfter
		if wait <= 0 {
			wait = r.backoff(attempt)
		}
		if err := r.sleep(ctx, wait); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}
	return lastErr
}

// backoff computes base * 2^(attempt-1) * jitter, capped at maxWait, where
// jitter is drawn uniformly from [0.5, 1.5).
func (r *Retrier) backoff(attempt int) time.Duration {
	exp := attempt - 1
	if exp > 20 {
		exp = 20 // guards against overflow; result already exceeds maxWait well before this
	}
	base := float64(r.baseWait) * float64(int64(1)<<uint(exp))
	jitter := 0.5 + r.rand()
	delay := time.Duration(base * jitter)
	if delay > r.maxWait {
		delay = r.maxWait
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
