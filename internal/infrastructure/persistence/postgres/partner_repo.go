// Package postgres implements the PostgreSQL persistence layer for the ERIO
// Dashboard.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARTNER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PartnerRepository implements partner.Repository for PostgreSQL.
type PartnerRepository struct {
	conn *Connection
}

// NewPartnerRepository creates a new PartnerRepository.
func NewPartnerRepository(conn *Connection) *PartnerRepository {
	return &PartnerRepository{conn: conn}
}

const partnerColumns = `id, name, country, city, lat, lng, students, programs,
	   established, partner_type, sign_date, expiry_date, created_at, updated_at`

// Create creates a new partner.
func (r *PartnerRepository) Create(ctx context.Context, p *partner.Partner) error {
	query := `
		INSERT INTO partners (
			id, name, country, city, lat, lng, students, programs,
			established, partner_type, sign_date, expiry_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID.String(),
		p.Name,
		p.Country,
		p.City,
		p.Coordinates.Lat,
		p.Coordinates.Lng,
		p.Students,
		p.Programs,
		p.Established,
		string(p.Type),
		string(p.SignDate),
		string(p.ExpiryDate),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPartnerAlreadyExists
		}
		return fmt.Errorf("failed to create partner: %w", err)
	}

	return nil
}

// GetByID returns a partner by ID.
func (r *PartnerRepository) GetByID(ctx context.Context, id shared.EntityID) (*partner.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id.String())
	p, err := r.scanPartner(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return p, nil
}

// List returns partners matching the filter, newest first. The active-only
// filter is evaluated in SQL with the same lexicographic date comparison the
// domain uses.
func (r *PartnerRepository) List(ctx context.Context, filter partner.Filter) ([]*partner.Partner, error) {
	var conditions []string
	var args []interface{}

	if filter.Country != "" {
		args = append(args, filter.Country)
		conditions = append(conditions, fmt.Sprintf("LOWER(country) = LOWER($%d)", len(args)))
	}
	if filter.ActiveOnly {
		args = append(args, string(timeutil.Today()))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"sign_date != '' AND sign_date <= $%d AND (expiry_date = '' OR expiry_date >= $%d)", n, n))
	}

	query := `SELECT ` + partnerColumns + ` FROM partners`
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
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []*partner.Partner
	for rows.Next() {
		p, err := r.scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, p)
	}

	return partners, rows.Err()
}

// Update updates a partner.
func (r *PartnerRepository) Update(ctx context.Context, p *partner.Partner) error {
	query := `
		UPDATE partners SET
			name = $1,
			country = $2,
			city = $3,
			lat = $4,
			lng = $5,
			students = $6,
			programs = $7,
			established = $8,
			partner_type = $9,
			sign_date = $10,
			expiry_date = $11,
			updated_at = $12
		WHERE id = $13
	`

	result, err := r.conn.Exec(ctx, query,
		p.Name,
		p.Country,
		p.City,
		p.Coordinates.Lat,
		p.Coordinates.Lng,
		p.Students,
		p.Programs,
		p.Established,
		string(p.Type),
		string(p.SignDate),
		string(p.ExpiryDate),
		p.UpdatedAt,
		p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrPartnerNotFound
	}

	return nil
}

// Delete removes a partner.
func (r *PartnerRepository) Delete(ctx context.Context, id shared.EntityID) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrPartnerNotFound
	}

	return nil
}

// Count returns the total number of partners.
func (r *PartnerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM partners`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count partners: %w", err)
	}
	return count, nil
}

// scanPartner scans a partner from a row.
func (r *PartnerRepository) scanPartner(row pgx.Row) (*partner.Partner, error) {
	var p partner.Partner
	var id, partnerType, signDate, expiryDate string

	err := row.Scan(
		&id,
		&p.Name,
		&p.Country,
		&p.City,
		&p.Coordinates.Lat,
		&p.Coordinates.Lng,
		&p.Students,
		&p.Programs,
		&p.Established,
		&partnerType,
		&signDate,
		&expiryDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ID = shared.EntityID(id)
	p.Type = partner.Type(partnerType)
	p.SignDate = timeutil.ISODate(signDate)
	p.ExpiryDate = timeutil.ISODate(expiryDate)

	return &p, nil
}
