package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/mobility"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MOBILITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MobilityRepository implements mobility.Repository for PostgreSQL.
type MobilityRepository struct {
	conn *Connection
}

// NewMobilityRepository creates a new MobilityRepository.
func NewMobilityRepository(conn *Connection) *MobilityRepository {
	return &MobilityRepository{conn: conn}
}

const mobilityColumns = `id, mobility_type, direction, participant_name, institution,
	   country, academic_year, start_date, end_date, created_at, updated_at`

// Create creates a new placement.
func (r *MobilityRepository) Create(ctx context.Context, p *mobility.Programme) error {
	query := `
		INSERT INTO mobility_programmes (
			id, mobility_type, direction, participant_name, institution,
			country, academic_year, start_date, end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID.String(),
		string(p.Type),
		string(p.Direction),
		p.ParticipantName,
		p.Institution,
		p.Country,
		p.AcademicYear,
		string(p.StartDate),
		string(p.EndDate),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mobility placement: %w", err)
	}
	return nil
}

// GetByID returns a placement by ID.
func (r *MobilityRepository) GetByID(ctx context.Context, id shared.EntityID) (*mobility.Programme, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+mobilityColumns+` FROM mobility_programmes WHERE id = $1`, id.String())
	p, err := r.scanProgramme(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgrammeNotFound
		}
		return nil, fmt.Errorf("failed to get mobility placement: %w", err)
	}
	return p, nil
}

// List returns placements matching the filter, newest first.
func (r *MobilityRepository) List(ctx context.Context, filter mobility.Filter) ([]*mobility.Programme, error) {
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conditions = append(conditions, fmt.Sprintf("mobility_type = $%d", len(args)))
	}
	if filter.Direction != "" {
		args = append(args, string(filter.Direction))
		conditions = append(conditions, fmt.Sprintf("direction = $%d", len(args)))
	}

	query := `SELECT ` + mobilityColumns + ` FROM mobility_programmes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("failed to list mobility placements: %w", err)
	}
	defer rows.Close()

	var programmes []*mobility.Programme
	for rows.Next() {
		p, err := r.scanProgramme(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mobility row: %w", err)
		}
		programmes = append(programmes, p)
	}

	return programmes, rows.Err()
}

// Update updates a placement.
func (r *MobilityRepository) Update(ctx context.Context, p *mobility.Programme) error {
	query := `
		UPDATE mobility_programmes SET
			mobility_type = $1,
			direction = $2,
			participant_name = $3,
			institution = $4,
			country = $5,
			academic_year = $6,
			start_date = $7,
			end_date = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := r.conn.Exec(ctx, query,
		string(p.Type),
		string(p.Direction),
		p.ParticipantName,
		p.Institution,
		p.Country,
		p.AcademicYear,
		string(p.StartDate),
		string(p.EndDate),
		p.UpdatedAt,
		p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update mobility placement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrProgrammeNotFound
	}
	return nil
}

// Delete removes a placement.
func (r *MobilityRepository) Delete(ctx context.Context, id shared.EntityID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM mobility_programmes WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete mobility placement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrProgrammeNotFound
	}
	return nil
}

// Count returns the total number of placements.
func (r *MobilityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM mobility_programmes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count mobility placements: %w", err)
	}
	return count, nil
}

func (r *MobilityRepository) scanProgramme(row pgx.Row) (*mobility.Programme, error) {
	var p mobility.Programme
	var id, typ, direction, startDate, endDate string

	err := row.Scan(
		&id,
		&typ,
		&direction,
		&p.ParticipantName,
		&p.Institution,
		&p.Country,
		&p.AcademicYear,
		&startDate,
		&endDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ID = shared.EntityID(id)
	p.Type = mobility.Type(typ)
	p.Direction = mobility.Direction(direction)
	p.StartDate = timeutil.ISODate(startDate)
	p.EndDate = timeutil.ISODate(endDate)
	return &p, nil
}
