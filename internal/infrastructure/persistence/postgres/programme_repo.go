package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/programme"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAMME REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProgrammeRepository implements programme.Repository for PostgreSQL.
type ProgrammeRepository struct {
	conn *Connection
}

// NewProgrammeRepository creates a new ProgrammeRepository.
func NewProgrammeRepository(conn *Connection) *ProgrammeRepository {
	return &ProgrammeRepository{conn: conn}
}

const offeringColumns = `id, name, category, description, partner_name,
	   start_date, duration_weeks, slots, created_at, updated_at`

// Create creates a new offering.
func (r *ProgrammeRepository) Create(ctx context.Context, o *programme.Offering) error {
	query := `
		INSERT INTO programme_offerings (
			id, name, category, description, partner_name,
			start_date, duration_weeks, slots, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		o.ID.String(),
		o.Name,
		string(o.Category),
		o.Description,
		o.PartnerName,
		string(o.StartDate),
		o.DurationWks,
		o.Slots,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create offering: %w", err)
	}
	return nil
}

// GetByID returns an offering by ID.
func (r *ProgrammeRepository) GetByID(ctx context.Context, id shared.EntityID) (*programme.Offering, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+offeringColumns+` FROM programme_offerings WHERE id = $1`, id.String())
	o, err := r.scanOffering(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return o, nil
}

// List returns offerings, start date ascending, undated last.
func (r *ProgrammeRepository) List(ctx context.Context, filter programme.Filter) ([]*programme.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM programme_offerings`
	var args []interface{}

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" WHERE category = $%d", len(args))
	}

	query += " ORDER BY (start_date = '') ASC, start_date ASC, created_at ASC"

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
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	defer rows.Close()

	var offerings []*programme.Offering
	for rows.Next() {
		o, err := r.scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offering row: %w", err)
		}
		offerings = append(offerings, o)
	}

	return offerings, rows.Err()
}

// Update updates an offering.
func (r *ProgrammeRepository) Update(ctx context.Context, o *programme.Offering) error {
	query := `
		UPDATE programme_offerings SET
			name = $1,
			category = $2,
			description = $3,
			partner_name = $4,
			start_date = $5,
			duration_weeks = $6,
			slots = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		o.Name,
		string(o.Category),
		o.Description,
		o.PartnerName,
		string(o.StartDate),
		o.DurationWks,
		o.Slots,
		o.UpdatedAt,
		o.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update offering: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrOfferingNotFound
	}
	return nil
}

// Delete removes an offering.
func (r *ProgrammeRepository) Delete(ctx context.Context, id shared.EntityID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM programme_offerings WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete offering: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrOfferingNotFound
	}
	return nil
}

// CountByCategory tallies stored offerings per category.
func (r *ProgrammeRepository) CountByCategory(ctx context.Context) (programme.Counts, error) {
	query := `SELECT category, COUNT(*) FROM programme_offerings GROUP BY category`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return programme.Counts{}, fmt.Errorf("failed to count offerings: %w", err)
	}
	defer rows.Close()

	var counts programme.Counts
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return programme.Counts{}, fmt.Errorf("failed to scan count row: %w", err)
		}
		switch programme.Category(category) {
		case programme.CategoryExchange:
			counts.Exchange = n
		case programme.CategoryResearch:
			counts.Research = n
		case programme.CategorySummer:
			counts.Summer = n
		}
	}

	return counts, rows.Err()
}

func (r *ProgrammeRepository) scanOffering(row pgx.Row) (*programme.Offering, error) {
	var o programme.Offering
	var id, category, startDate string

	err := row.Scan(
		&id,
		&o.Name,
		&category,
		&o.Description,
		&o.PartnerName,
		&startDate,
		&o.DurationWks,
		&o.Slots,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.ID = shared.EntityID(id)
	o.Category = programme.Category(category)
	o.StartDate = timeutil.ISODate(startDate)
	return &o, nil
}
