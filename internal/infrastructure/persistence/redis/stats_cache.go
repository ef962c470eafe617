package redis

import (
	"context"
	"errors"
)

// statsDashboardKey holds the cached public dashboard stats payload.
const statsDashboardKey = PrefixStats + "dashboard"

// StatsCache keeps the assembled dashboard stats payload hot so the public
// endpoint does not hit PostgreSQL on every request. The value is whatever
// JSON-serializable result the query layer produces.
type StatsCache struct {
	cache *Cache
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(cache *Cache) *StatsCache {
	return &StatsCache{cache: cache}
}

// Get loads the cached payload into dest. Returns false on a cache miss.
func (s *StatsCache) Get(ctx context.Context, dest interface{}) (bool, error) {
	err := s.cache.Get(ctx, statsDashboardKey, dest)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Set stores the payload with the standard stats TTL.
func (s *StatsCache) Set(ctx context.Context, value interface{}) error {
	return s.cache.Set(ctx, statsDashboardKey, value, TTLStatsCache)
}

// Invalidate drops the cached payload. Called after any admin write that can
// change the public figures.
func (s *StatsCache) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, statsDashboardKey)
}
