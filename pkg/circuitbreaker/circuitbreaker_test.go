package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func failing(context.Context) error { return errUpstream }
func healthy(context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(ctx, failing), errUpstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	// Open circuit fails fast without calling through.
	called := false
	err := cb.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	require.NoError(t, cb.Execute(ctx, healthy))
	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// Past the timeout the trial request is allowed and closes the circuit.
	require.NoError(t, cb.Execute(ctx, healthy))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(10*time.Millisecond),
	)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	time.Sleep(20 * time.Millisecond)

	require.ErrorIs(t, cb.Execute(ctx, failing), errUpstream)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_ReportsStateChanges(t *testing.T) {
	type transition struct{ from, to State }
	var seen []transition

	cb := New("nominatim",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			assert.Equal(t, "nominatim", name)
			seen = append(seen, transition{from, to})
		}),
	)

	require.Error(t, cb.Execute(context.Background(), failing))
	require.Equal(t, []transition{{StateClosed, StateOpen}}, seen)
}
