package query

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/admin"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFY ADMIN QUERY
// Confirms that a token's subject still maps to a live admin account. A
// valid token for a deleted account must not pass.
// ══════════════════════════════════════════════════════════════════════════════

// AdminIdentityResult is the account behind a verified session.
type AdminIdentityResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// VerifyAdminHandler re-checks the admin row behind a validated token.
type VerifyAdminHandler struct {
	adminRepo admin.Repository
}

// NewVerifyAdminHandler creates the verify handler.
func NewVerifyAdminHandler(adminRepo admin.Repository) *VerifyAdminHandler {
	return &VerifyAdminHandler{adminRepo: adminRepo}
}

// Handle resolves the admin account. Returns shared.ErrAdminNotFound when
// the account no longer exists.
func (h *VerifyAdminHandler) Handle(ctx context.Context, adminID string) (*AdminIdentityResult, error) {
	id := shared.EntityID(adminID)
	if !id.IsValid() {
		return nil, shared.ErrAdminNotFound
	}

	user, err := h.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AdminIdentityResult{
		ID:    user.ID.String(),
		Email: user.Email.String(),
		Name:  user.Name,
		Role:  user.Role.String(),
	}, nil
}
