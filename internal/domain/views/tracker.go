// Package views defines the website view counter: unique daily visitor
// sessions recorded from the public site and summed into a total.
package views

import (
	"context"

	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// DailyCount is the unique-session count for one calendar day.
type DailyCount struct {
	Date  timeutil.ISODate
	Count int
}

// Tracker is the port for recording and reading visitor sessions. A session
// counts at most once per calendar day.
type Tracker interface {
	// Record registers a visitor session for the given day. Recording the
	// same session twice on one day is a no-op. Returns true when the
	// session was new for the day.
	Record(ctx context.Context, sessionID string, day timeutil.ISODate) (bool, error)

	// Total returns the all-time sum of unique daily sessions.
	Total(ctx context.Context) (int, error)

	// CountOn returns the unique-session count for one day.
	CountOn(ctx context.Context, day timeutil.ISODate) (int, error)
}

// Rollup is one day's durable counter record. The tracker holds the live
// counters; rollups survive a cache flush.
type Rollup struct {
	Day            timeutil.ISODate
	UniqueSessions int
	RunningTotal   int
}

// RollupStore is the port for the durable daily rollup.
type RollupStore interface {
	// Save upserts the rollup for its day.
	Save(ctx context.Context, r Rollup) error

	// Latest returns the most recent rollup, or nil when none exist.
	Latest(ctx context.Context) (*Rollup, error)
}
