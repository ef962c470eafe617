// Package admin contains the admin-user aggregate: the office staff accounts
// that can sign in to the management dashboard.
// This is a pure domain layer with zero external dependencies; password
// hashing lives in the application layer.
package admin

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// Role scopes what an admin account may do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEditor
}

func (r Role) String() string { return string(r) }

// User is one admin account. PasswordHash is a bcrypt hash; the domain never
// sees plaintext passwords.
type User struct {
	ID           shared.EntityID
	Email        shared.Email
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// New creates an admin user with a fresh ID and validates it. The caller
// supplies an already-hashed password.
func New(email, name, passwordHash string) (*User, error) {
	u := &User{
		ID:           shared.EntityID(uuid.NewString()),
		Email:        shared.Email(strings.ToLower(strings.TrimSpace(email))),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		CreatedAt:    timeutil.Now(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the invariants every stored admin must satisfy.
func (u *User) Validate() error {
	if !u.ID.IsValid() {
		return shared.NewDomainError("admin", "validate", shared.ErrInvalidID, "admin id is not a valid uuid")
	}
	if !u.Email.IsValid() {
		return shared.NewDomainError("admin", "validate", shared.ErrInvalidFormat, "admin email is malformed")
	}
	if u.PasswordHash == "" {
		return shared.NewDomainError("admin", "validate", shared.ErrEmptyValue, "password hash is required")
	}
	if !u.Role.IsValid() {
		return shared.NewDomainError("admin", "validate", shared.ErrInvalidInput, "unknown admin role: "+string(u.Role))
	}
	return nil
}

// RecordLogin stamps a successful sign-in.
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}
