package breaker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestClosedAdmitsUntilThreshold(t *testing.T) {
	b := New(WithThreshold(5))

	for i := 0; i < 4; i++ {
		err := b.Guard(context.Background(), fail, nil)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, Closed, b.Snapshot().State)
	}

	err := b.Guard(context.Background(), fail, nil)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Open, b.Snapshot().State, "the threshold-th consecutive failure must trip the breaker")
}

func TestOpenRejectsWithoutCallingFn(t *testing.T) {
	b := New(WithThreshold(1), WithOpenTimeout(time.Hour))
	require.Error(t, b.Guard(context.Background(), fail, nil))
	require.Equal(t, Open, b.Snapshot().State)

	called := false
	err := b.Guard(context.Background(), func(context.Context) error {
		called = true
		return nil
	}, nil)
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called, "fn must not run while the circuit is open")
}

func TestFullCycleClosedOpenHalfOpenClosed(t *testing.T) {
	b := New(WithThreshold(1), WithOpenTimeout(20*time.Millisecond))

	require.Error(t, b.Guard(context.Background(), fail, nil))
	require.Equal(t, Open, b.Snapshot().State)

	time.Sleep(25 * time.Millisecond)

	require.NoError(t, b.Guard(context.Background(), succeed, nil))
	assert.Equal(t, Closed, b.Snapshot().State)
	assert.Equal(t, 0, b.Snapshot().ConsecutiveFailures)
}

func TestHalfOpenFailureReturnsToOpen(t *testing.T) {
	b := New(WithThreshold(1), WithOpenTimeout(20*time.Millisecond))

	require.Error(t, b.Guard(context.Background(), fail, nil))
	time.Sleep(25 * time.Millisecond)

	require.Error(t, b.Guard(context.Background(), fail, nil))
	assert.Equal(t, Open, b.Snapshot().State)
}

func TestOnlyOneCallerAdmittedIntoHalfOpen(t *testing.T) {
	b := New(WithThreshold(1), WithOpenTimeout(10*time.Millisecond))
	require.Error(t, b.Guard(context.Background(), fail, nil))
	time.Sleep(15 * time.Millisecond)

	var admitted int64
	var wg sync.WaitGroup
	release := make(chan struct{})

	const n = 20
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := b.Guard(context.Background(), func(context.Context) error {
				atomic.AddInt64(&admitted, 1)
				<-release
				return nil
			}, nil)
			if err != nil {
				assert.ErrorIs(t, err, ErrOpen)
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&admitted), "exactly one caller must be admitted as the half-open probe")
}

func TestIsFailureClassifierExcludesNonFailures(t *testing.T) {
	b := New(WithThreshold(1))
	isFailure := func(err error) bool { return false }

	err := b.Guard(context.Background(), fail, isFailure)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, Closed, b.Snapshot().State, "a 4xx-classified error must not trip the breaker")
}
