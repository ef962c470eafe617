package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeHealthChecker_AllChecksPass(t *testing.T) {
	checker := NewCompositeHealthChecker("v1.0.0")
	checker.AddCheck("database", func(ctx context.Context) error { return nil })
	checker.AddCheck("redis", func(ctx context.Context) error { return nil })

	status := checker.Check(context.Background())

	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Equal(t, "All checks passed", status.Message)
	assert.Equal(t, "v1.0.0", status.Version)
	require.Len(t, status.Checks, 2)
	assert.True(t, status.Checks["database"].Healthy)
	assert.Equal(t, "OK", status.Checks["redis"].Message)
}

func TestCompositeHealthChecker_FailedCheckMarksUnhealthy(t *testing.T) {
	checker := NewCompositeHealthChecker("v1.0.0")
	checker.AddCheck("database", func(ctx context.Context) error { return nil })
	checker.AddCheck("redis", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	status := checker.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.False(t, status.Ready)
	assert.Equal(t, "Some checks failed: redis", status.Message)
	assert.True(t, status.Checks["database"].Healthy)
	assert.False(t, status.Checks["redis"].Healthy)
	assert.Equal(t, "connection refused", status.Checks["redis"].Message)
}

func TestCompositeHealthChecker_NoChecksRegistered(t *testing.T) {
	checker := NewCompositeHealthChecker("dev")

	status := checker.Check(context.Background())

	assert.True(t, status.Healthy)
	assert.Equal(t, "No health checks registered", status.Message)
	assert.Empty(t, status.Checks)
}
