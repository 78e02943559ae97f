package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errPermanent = errors.New("permanent")

func alwaysRetryable(err error) Classification {
	return Classification{Retryable: errors.Is(err, errTransient)}
}

func TestDoSucceedsWithoutRetryOnFirstAttempt(t *testing.T) {
	r := New()
	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, alwaysRetryable)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientUpToMaxAttempts(t *testing.T) {
	r := New(WithMaxAttempts(3), WithBaseWait(time.Millisecond), WithMaxWait(5*time.Millisecond))
	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	}, alwaysRetryable)
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDoStopsImmediatelyOnNonRetryable(t *testing.T) {
	r := New(WithMaxAttempts(5))
	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errPermanent
	}, alwaysRetryable)
	require.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsRetryAfterVerbatim(t *testing.T) {
	r := New(WithMaxAttempts(2), WithBaseWait(time.Hour))
	classify := func(err error) Classification {
		return Classification{Retryable: true, RetryAfter: 30 * time.Millisecond}
	}

	calls := 0
	start := time.Now()
	_ = r.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	}, classify)
	elapsed := time.Since(start)

	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, elapsed, 25*time.Millisecond)
	assert.Less(t, elapsed, time.Second, "an hour-long base backoff must not be used when Retry-After is present")
}

func TestDoCancellationDuringBackoffSleep(t *testing.T) {
	r := New(WithMaxAttempts(3), WithBaseWait(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Do(ctx, func(context.Context) error {
		return errTransient
	}, alwaysRetryable)
	require.Error(t, err)
}

func TestBackoffCapsAtMaxWait(t *testing.T) {
	r := New(WithBaseWait(time.Second), WithMaxWait(2*time.Second))
	r.rand = func() float64 { return 0.999 } // near-max jitter
	d := r.backoff(10)
	assert.Equal(t, 2*time.Second, d)
}
