// Package auth implements credential verification and session tokens for the
// admin API: bcrypt password hashing and HS256-signed JWTs.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PASSWORD HASHING
// ══════════════════════════════════════════════════════════════════════════════

// DefaultBcryptCost is the work factor for new password hashes.
const DefaultBcryptCost = 12

// BcryptVerifier implements command.PasswordVerifier with bcrypt.
type BcryptVerifier struct {
	cost int
}

// NewBcryptVerifier creates a verifier. Cost applies to Hash only; Verify
// reads the cost from the stored hash.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{cost: DefaultBcryptCost}
}

// Verify compares a plaintext password against a stored bcrypt hash.
func (v *BcryptVerifier) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return shared.ErrInvalidCredentials
		}
		return shared.WrapError("auth", "Verify", shared.ErrInvalidInput, "malformed password hash", err)
	}
	return nil
}

// Hash produces a bcrypt hash for a new password. Used by the admin seeding
// command, not by the login path.
func (v *BcryptVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", shared.WrapError("auth", "Hash", shared.ErrInvalidInput, "failed to hash password", err)
	}
	return string(hashed), nil
}
