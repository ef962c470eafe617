package admin

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// Repository is the persistence port for admin users.
type Repository interface {
	// Create stores a new admin user.
	Create(ctx context.Context, u *User) error

	// GetByEmail fetches an admin by email. Returns
	// shared.ErrAdminNotFound when no admin has the email.
	GetByEmail(ctx context.Context, email shared.Email) (*User, error)

	// GetByID fetches an admin by ID. Returns shared.ErrAdminNotFound
	// when no admin has the ID.
	GetByID(ctx context.Context, id shared.EntityID) (*User, error)

	// RecordLogin stamps the last successful sign-in.
	RecordLogin(ctx context.Context, id shared.EntityID) error
}
