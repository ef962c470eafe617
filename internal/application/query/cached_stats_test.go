package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/programme"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

type memDashboardCache struct {
	stored *DashboardStatsResult
	getErr error
	gets   int
	sets   int
}

func (c *memDashboardCache) Get(ctx context.Context, dest interface{}) (bool, error) {
	c.gets++
	if c.getErr != nil {
		return false, c.getErr
	}
	if c.stored == nil {
		return false, nil
	}
	*dest.(*DashboardStatsResult) = *c.stored
	return true, nil
}

func (c *memDashboardCache) Set(ctx context.Context, value interface{}) error {
	c.sets++
	result := *value.(*DashboardStatsResult)
	c.stored = &result
	return nil
}

func newStatsHandlerForCache() *GetDashboardStatsHandler {
	return NewGetDashboardStatsHandler(
		&stubPartnerRepo{},
		&stubEventRepo{count: 3},
		&stubProgrammeRepo{counts: programme.Counts{Exchange: 1}},
		&stubActivityCounter{count: 2},
		&stubStatsRepo{err: errors.New("no snapshot")},
		nil,
	)
}

func TestCachedDashboardStats_MissThenHit(t *testing.T) {
	cache := &memDashboardCache{}
	h := NewCachedDashboardStats(newStatsHandlerForCache(), cache, nil)

	first, err := h.Handle(context.Background(), GetDashboardStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := h.Handle(context.Background(), GetDashboardStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets, "hit must not rewrite the cache")
	assert.Equal(t, first.EventsThisYear, second.EventsThisYear)
}

func TestCachedDashboardStats_OverriddenDateBypassesCache(t *testing.T) {
	cache := &memDashboardCache{}
	h := NewCachedDashboardStats(newStatsHandlerForCache(), cache, nil)

	_, err := h.Handle(context.Background(), GetDashboardStatsQuery{
		Today: timeutil.ISODate("2024-06-01"),
	})
	require.NoError(t, err)
	assert.Zero(t, cache.gets)
	assert.Zero(t, cache.sets)
}

func TestCachedDashboardStats_CacheFailureFallsThrough(t *testing.T) {
	cache := &memDashboardCache{getErr: errors.New("redis down")}
	h := NewCachedDashboardStats(newStatsHandlerForCache(), cache, nil)

	result, err := h.Handle(context.Background(), GetDashboardStatsQuery{})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
