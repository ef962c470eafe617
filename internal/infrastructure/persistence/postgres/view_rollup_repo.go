package postgres

import (
	"context"
	"fmt"

	"github.com/erio-hub/erio-dashboard/internal/domain/views"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW ROLLUP REPOSITORY IMPLEMENTATION
// One row per calendar day; Save upserts so the rollup job can run any
// number of times within a day.
// ══════════════════════════════════════════════════════════════════════════════

// ViewRollupRepository implements views.RollupStore for PostgreSQL.
type ViewRollupRepository struct {
	conn *Connection
}

// NewViewRollupRepository creates a new ViewRollupRepository.
func NewViewRollupRepository(conn *Connection) *ViewRollupRepository {
	return &ViewRollupRepository{conn: conn}
}

var _ views.RollupStore = (*ViewRollupRepository)(nil)

// Save upserts the rollup for its day.
func (r *ViewRollupRepository) Save(ctx context.Context, rollup views.Rollup) error {
	query := `
		INSERT INTO view_rollups (day, unique_sessions, running_total, recorded_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (day) DO UPDATE SET
			unique_sessions = EXCLUDED.unique_sessions,
			running_total = EXCLUDED.running_total,
			recorded_at = NOW()
	`

	_, err := r.conn.Exec(ctx, query,
		rollup.Day.String(),
		rollup.UniqueSessions,
		rollup.RunningTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to save view rollup: %w", err)
	}

	return nil
}

// Latest returns the most recent rollup, or nil when none exist.
func (r *ViewRollupRepository) Latest(ctx context.Context) (*views.Rollup, error) {
	query := `
		SELECT day, unique_sessions, running_total
		FROM view_rollups
		ORDER BY day DESC
		LIMIT 1
	`

	var day string
	var rollup views.Rollup
	err := r.conn.QueryRow(ctx, query).Scan(&day, &rollup.UniqueSessions, &rollup.RunningTotal)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest view rollup: %w", err)
	}

	rollup.Day = timeutil.ISODate(day)
	return &rollup, nil
}
