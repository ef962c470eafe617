package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/erio-hub/erio-dashboard/internal/domain/admin"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AdminRepository implements admin.Repository for PostgreSQL.
type AdminRepository struct {
	conn *Connection
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(conn *Connection) *AdminRepository {
	return &AdminRepository{conn: conn}
}

const adminColumns = `id, email, name, password_hash, role, created_at, last_login_at`

// Create creates a new admin user.
func (r *AdminRepository) Create(ctx context.Context, u *admin.User) error {
	query := `
		INSERT INTO admins (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		u.ID.String(),
		u.Email.String(),
		u.Name,
		u.PasswordHash,
		string(u.Role),
		u.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError("admin", "Create", shared.ErrAlreadyExists, "admin email already registered")
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetByEmail returns an admin by email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email shared.Email) (*admin.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email.String())
	return r.scanAdmin(row)
}

// GetByID returns an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id shared.EntityID) (*admin.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id.String())
	return r.scanAdmin(row)
}

// RecordLogin stamps the last successful sign-in.
func (r *AdminRepository) RecordLogin(ctx context.Context, id shared.EntityID) error {
	result, err := r.conn.Exec(ctx,
		`UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrAdminNotFound
	}
	return nil
}

func (r *AdminRepository) scanAdmin(row pgx.Row) (*admin.User, error) {
	var u admin.User
	var id, email, role string
	var lastLogin *time.Time

	err := row.Scan(&id, &email, &u.Name, &u.PasswordHash, &role, &u.CreatedAt, &lastLogin)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}

	u.ID = shared.EntityID(id)
	u.Email = shared.Email(email)
	u.Role = admin.Role(role)
	u.LastLoginAt = lastLogin
	return &u, nil
}
