package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(attempts int) *Retrier {
	return New(
		WithMaxAttempts(attempts),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
	)
}

func TestRetrier_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := fastRetrier(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_PermanentErrorStopsImmediately(t *testing.T) {
	boom := errors.New("bad request")
	calls := 0
	err := fastRetrier(5).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(boom)
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_UnwrappedErrorIsNotRetriedByDefault(t *testing.T) {
	calls := 0
	err := fastRetrier(5).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("plain failure")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_RetryIfOverridesDefault(t *testing.T) {
	calls := 0
	r := New(
		WithMaxAttempts(3),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithRetryIf(func(error) bool { return true }),
	)
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("plain failure")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_ExhaustionReturnsUnwrappedError(t *testing.T) {
	cause := errors.New("timeout")
	err := fastRetrier(2).Do(context.Background(), func(context.Context) error {
		return Retryable(cause)
	})

	assert.Equal(t, cause, err)
}

func TestCalculateDelay_CapsAtMaxDelay(t *testing.T) {
	r := New(
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(300*time.Millisecond),
		WithMultiplier(10),
		WithJitter(0),
	)

	assert.Equal(t, 100*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 300*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 300*time.Millisecond, r.calculateDelay(5))
}
