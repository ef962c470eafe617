package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/erio-hub/erio-dashboard/internal/domain/views"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW TRACKER ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrSessionIDEmpty is returned when the session ID is empty.
	ErrSessionIDEmpty = errors.New("view_tracker: session ID cannot be empty")

	// ErrInvalidDay is returned when the day is not a valid ISO date.
	ErrInvalidDay = errors.New("view_tracker: day must be a valid ISO date")
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW TRACKER
// ══════════════════════════════════════════════════════════════════════════════

// ViewTracker implements views.Tracker on Redis.
//
// Each calendar day gets a dedup set (views:day:<date>) holding the session
// IDs already seen that day; the first SADD of a session increments the
// all-time counter (views:total). Daily sets expire after TTLViewDay, the
// total never does.
type ViewTracker struct {
	client *goredis.Client
}

// NewViewTracker creates a ViewTracker on top of an existing cache client.
func NewViewTracker(cache *Cache) *ViewTracker {
	return &ViewTracker{client: cache.Client()}
}

// Record registers a visitor session for the given day. Returns true when the
// session was new for that day.
func (t *ViewTracker) Record(ctx context.Context, sessionID string, day timeutil.ISODate) (bool, error) {
	if sessionID == "" {
		return false, ErrSessionIDEmpty
	}
	if !day.IsValid() {
		return false, ErrInvalidDay
	}

	dayKey := t.dayKey(day)
	added, err := t.client.SAdd(ctx, dayKey, sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("view_tracker: failed to record session: %w", err)
	}
	if added == 0 {
		// Already counted today.
		return false, nil
	}

	pipe := t.client.Pipeline()
	pipe.Expire(ctx, dayKey, TTLViewDay)
	pipe.Incr(ctx, t.totalKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("view_tracker: failed to bump total: %w", err)
	}

	return true, nil
}

// Total returns the all-time sum of unique daily sessions.
func (t *ViewTracker) Total(ctx context.Context) (int, error) {
	val, err := t.client.Get(ctx, t.totalKey()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("view_tracker: failed to read total: %w", err)
	}

	total, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("view_tracker: corrupt total value %q: %w", val, err)
	}
	return total, nil
}

// CountOn returns the unique-session count for one day.
func (t *ViewTracker) CountOn(ctx context.Context, day timeutil.ISODate) (int, error) {
	if !day.IsValid() {
		return 0, ErrInvalidDay
	}

	count, err := t.client.SCard(ctx, t.dayKey(day)).Result()
	if err != nil {
		return 0, fmt.Errorf("view_tracker: failed to count day: %w", err)
	}
	return int(count), nil
}

func (t *ViewTracker) dayKey(day timeutil.ISODate) string {
	return PrefixViews + "day:" + day.String()
}

func (t *ViewTracker) totalKey() string {
	return PrefixViews + "total"
}

// Ensure interface compliance.
var _ views.Tracker = (*ViewTracker)(nil)
