package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/activity"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ActivityRepository implements activity.Repository for PostgreSQL.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

const activityColumns = `id, title, description, activity_date, image_url, created_at, updated_at`

// Create creates a new activity.
func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	query := `
		INSERT INTO activities (id, title, description, activity_date, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID.String(),
		a.Title,
		a.Description,
		string(a.ActivityDate),
		a.ImageURL,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetByID returns an activity by ID.
func (r *ActivityRepository) GetByID(ctx context.Context, id shared.EntityID) (*activity.Activity, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id.String())
	a, err := r.scanActivity(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// List returns activities, most recent activity date first, undated last.
func (r *ActivityRepository) List(ctx context.Context, filter activity.Filter) ([]*activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities`
	var args []interface{}

	if filter.UpcomingOnly {
		args = append(args, string(timeutil.Today()))
		query += fmt.Sprintf(" WHERE activity_date != '' AND activity_date >= $%d", len(args))
	}

	// Empty dates sort after everything in descending order because the
	// sort key lifts them explicitly.
	query += " ORDER BY (activity_date = '') ASC, activity_date DESC, created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*activity.Activity
	for rows.Next() {
		a, err := r.scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// Update updates an activity.
func (r *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	query := `
		UPDATE activities SET
			title = $1,
			description = $2,
			activity_date = $3,
			image_url = $4,
			updated_at = $5
		WHERE id = $6
	`

	result, err := r.conn.Exec(ctx, query,
		a.Title,
		a.Description,
		string(a.ActivityDate),
		a.ImageURL,
		a.UpdatedAt,
		a.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrActivityNotFound
	}
	return nil
}

// Delete removes an activity.
func (r *ActivityRepository) Delete(ctx context.Context, id shared.EntityID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrActivityNotFound
	}
	return nil
}

// Count returns the total number of activities.
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func (r *ActivityRepository) scanActivity(row pgx.Row) (*activity.Activity, error) {
	var a activity.Activity
	var id, date string

	err := row.Scan(&id, &a.Title, &a.Description, &date, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.ID = shared.EntityID(id)
	a.ActivityDate = timeutil.ISODate(date)
	return &a, nil
}
