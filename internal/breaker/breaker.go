// Package breaker implements a three-state circuit breaker: CLOSED admits
// calls, OPEN rejects them until open_timeout elapses, HALF_OPEN admits
// exactly one probe call before deciding the next state. No off-the-shelf
// circuit breaker library is available in the dependency set this module
// was grounded on, so the state machine below is hand-written, following
// the same single-mutex, compare-then-act style the token manager in
// internal/auth uses for its race-free token refresh; here it makes the
// OPEN→HALF_OPEN transition atomic.
package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is one of the three breaker states.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned by Guard when the circuit is open.
var ErrOpen = errors.New("breaker: circuit open")

// DefaultThreshold and DefaultOpenTimeout are the gateway's defaults.
const (
	DefaultThreshold   = 5
	DefaultOpenTimeout = 60 * time.Second
)

// Breaker guards a callable against a failing upstream.
type Breaker struct {
	threshold   int
	openTimeout time.Duration

	mu                 sync.Mutex
	state              State
	consecutiveFailures int
	lastFailureAt      time.Time
	halfOpenInFlight   bool
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(n int) Option {
	return func(b *Breaker) { b.threshold = n }
}

// WithOpenTimeout overrides DefaultOpenTimeout.
func WithOpenTimeout(d time.Duration) Option {
	return func(b *Breaker) { b.openTimeout = d }
}

// New creates a Breaker starting in the CLOSED state.
func New(opts ...Option) *Breaker {
	b := &Breaker{
		threshold:   DefaultThreshold,
		openTimeout: DefaultOpenTimeout,
		state:       Closed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Guard executes fn if the circuit admits the call, recording the outcome.
// It returns ErrOpen without calling fn when the circuit is open and the
// timeout has not elapsed. IsFailure classifies the error fn returns; a nil
// IsFailure treats any non-nil error as a failure.
func (b *Breaker) Guard(ctx context.Context, fn func(context.Context) error, isFailure func(error) bool) error {
	if !b.admit() {
		return ErrOpen
	}

	err := fn(ctx)

	failed := err != nil
	if isFailure != nil {
		failed = err != nil && isFailure(err)
	}

	if failed {
		b.recordFailure()
	} else {
		b.recordSuccess()
	}
	return err
}

// admit reports whether a call may proceed, performing the atomic
// OPEN→HALF_OPEN transition: of any number of concurrent callers that
// observe an expired open_timeout, only the first flips the state and is
// admitted as the probe; the rest see HALF_OPEN and are rejected until the
// probe resolves.
func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true
	case Open:
		if time.Since(b.lastFailureAt) >= b.openTimeout {
			b.state = HalfOpen
			b.halfOpenInFlight = true
			return true
		}
		return false
	case HalfOpen:
		if !b.halfOpenInFlight {
			b.halfOpenInFlight = true
			return true
		}
		return false
	default:
		return false
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.state = Closed
		b.consecutiveFailures = 0
		b.halfOpenInFlight = false
	case Closed:
		b.consecutiveFailures = 0
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.state = Open
		b.lastFailureAt = time.Now()
		b.halfOpenInFlight = false
	case Closed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.threshold {
			b.state = Open
			b.lastFailureAt = time.Now()
		}
	}
}

// Snapshot describes the breaker's current state for the health probe.
type Snapshot struct {
	State               State
	ConsecutiveFailures int
}

// Snapshot returns the current breaker state without mutating it.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{State: b.state, ConsecutiveFailures: b.consecutiveFailures}
}
