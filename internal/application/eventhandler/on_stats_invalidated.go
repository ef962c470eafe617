package eventhandler

import (
	"context"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS CACHE INVALIDATION
// Any admin-side mutation can shift the derived dashboard figures, so every
// entity-change event drops the cached stats payload. The next public
// request rebuilds it.
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache is the slice of the cache the invalidator needs.
type StatsCache interface {
	Invalidate(ctx context.Context) error
}

// StatsCacheInvalidator clears the cached dashboard payload on change events.
type StatsCacheInvalidator struct {
	cache   StatsCache
	timeout time.Duration
	log     *logger.Logger
}

// NewStatsCacheInvalidator creates the invalidator.
func NewStatsCacheInvalidator(cache StatsCache, log *logger.Logger) *StatsCacheInvalidator {
	if log == nil {
		log = logger.Default()
	}
	return &StatsCacheInvalidator{cache: cache, timeout: 2 * time.Second, log: log}
}

// Register subscribes the invalidator to every entity-change event type.
func (h *StatsCacheInvalidator) Register(bus shared.EventSubscriber) error {
	for _, t := range EntityChangeEventTypes() {
		if err := bus.Subscribe(t, h.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle drops the cached payload. A failed invalidation is logged and
// swallowed; the cache TTL bounds the staleness window anyway.
func (h *StatsCacheInvalidator) Handle(evt shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("stats cache invalidation failed",
			logger.String("event", string(evt.EventType())),
			logger.Err(err),
		)
	}
	return nil
}
