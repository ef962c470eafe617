// Package eventhandler contains subscribers that react to domain events.
package eventhandler

import (
	"sync"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON ENTITY CHANGED
// Folds every admin-side mutation into the "Recent Changes" feed the admin
// dashboard shows, and writes an audit line per change. The feed is a small
// in-memory ring; it resets on restart, which is acceptable for a
// glanceable widget.
// ══════════════════════════════════════════════════════════════════════════════

// ChangeEntry is one line in the recent-changes feed.
type ChangeEntry struct {
	Kind       string    `json:"kind"`
	Summary    string    `json:"summary"`
	AdminID    string    `json:"adminId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RecentChanges subscribes to entity-change events and keeps the last N.
type RecentChanges struct {
	mu      sync.RWMutex
	entries []ChangeEntry
	max     int
	log     *logger.Logger
}

// NewRecentChanges creates the feed with the given capacity.
func NewRecentChanges(max int, log *logger.Logger) *RecentChanges {
	if max <= 0 {
		max = 20
	}
	if log == nil {
		log = logger.Default()
	}
	return &RecentChanges{max: max, log: log}
}

// EntityChangeEventTypes lists every event an admin mutation emits.
func EntityChangeEventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventPartnerCreated, shared.EventPartnerUpdated, shared.EventPartnerDeleted,
		shared.EventActivityCreated, shared.EventActivityUpdated, shared.EventActivityDeleted,
		shared.EventEventCreated, shared.EventEventUpdated, shared.EventEventDeleted,
		shared.EventMobilityCreated, shared.EventMobilityUpdated, shared.EventMobilityDeleted,
		shared.EventOfferingCreated, shared.EventOfferingUpdated, shared.EventOfferingDeleted,
		shared.EventStatsUpdated,
	}
}

// Register subscribes the feed to every entity-change event type.
func (r *RecentChanges) Register(bus shared.EventSubscriber) error {
	for _, t := range EntityChangeEventTypes() {
		if err := bus.Subscribe(t, r.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle records one change event.
func (r *RecentChanges) Handle(evt shared.Event) error {
	changed, ok := evt.(shared.EntityChangedEvent)
	if !ok {
		return nil
	}

	entry := ChangeEntry{
		Kind:       changed.Kind,
		Summary:    changed.Summary,
		AdminID:    changed.AdminID,
		OccurredAt: evt.OccurredAt(),
	}

	r.mu.Lock()
	r.entries = append([]ChangeEntry{entry}, r.entries...)
	if len(r.entries) > r.max {
		r.entries = r.entries[:r.max]
	}
	r.mu.Unlock()

	r.log.Info("dashboard change",
		logger.String("kind", changed.Kind),
		logger.String("summary", changed.Summary),
		logger.AdminID(changed.AdminID),
	)
	return nil
}

// Recent returns the feed, newest first.
func (r *RecentChanges) Recent() []ChangeEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChangeEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
