package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/event"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EventRepository implements event.Repository for PostgreSQL.
type EventRepository struct {
	conn *Connection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(conn *Connection) *EventRepository {
	return &EventRepository{conn: conn}
}

const eventColumns = `id, title, place, event_date, short_description, image_url, created_at, updated_at`

// Create creates a new event.
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (id, title, place, event_date, short_description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID.String(),
		e.Title,
		e.Place,
		string(e.EventDate),
		e.ShortDescription,
		e.ImageURL,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID returns an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id shared.EntityID) (*event.Event, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id.String())
	e, err := r.scanEvent(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// List returns events matching the filter, soonest first, undated last.
func (r *EventRepository) List(ctx context.Context, filter event.Filter) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []interface{}
	var conditions []string

	if filter.Year > 0 {
		args = append(args, fmt.Sprintf("%04d-", filter.Year))
		conditions = append(conditions, fmt.Sprintf("event_date LIKE $%d || '%%'", len(args)))
	}
	if filter.UpcomingOnly {
		args = append(args, string(timeutil.Today()))
		conditions = append(conditions, fmt.Sprintf("event_date != '' AND event_date >= $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY (event_date = '') ASC, event_date ASC, created_at DESC"

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
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Update updates an event.
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events SET
			title = $1,
			place = $2,
			event_date = $3,
			short_description = $4,
			image_url = $5,
			updated_at = $6
		WHERE id = $7
	`

	result, err := r.conn.Exec(ctx, query,
		e.Title,
		e.Place,
		string(e.EventDate),
		e.ShortDescription,
		e.ImageURL,
		e.UpdatedAt,
		e.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrEventNotFound
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id shared.EntityID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM events WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrEventNotFound
	}
	return nil
}

// CountInYear returns how many events fall in the given calendar year.
func (r *EventRepository) CountInYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE event_date LIKE $1 || '%'`,
		fmt.Sprintf("%04d-", year),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func (r *EventRepository) scanEvent(row pgx.Row) (*event.Event, error) {
	var e event.Event
	var id, date string

	err := row.Scan(&id, &e.Title, &e.Place, &date, &e.ShortDescription, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.ID = shared.EntityID(id)
	e.EventDate = timeutil.ISODate(date)
	return &e, nil
}
