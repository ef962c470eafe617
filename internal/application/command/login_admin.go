package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/admin"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN ADMIN COMMAND
// Authenticates an admin against the stored bcrypt hash and issues a session
// token. There is exactly one credential path: the admins table. Lookup and
// verification failures collapse into one invalid-credentials error so the
// endpoint does not leak which emails exist.
// ══════════════════════════════════════════════════════════════════════════════

// PasswordVerifier compares a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, password string) error
}

// TokenIssuer mints a signed session token for an authenticated admin.
type TokenIssuer interface {
	Issue(adminID, email, role string) (token string, expiresAt time.Time, err error)
}

// LoginAdminCommand carries the submitted credentials.
type LoginAdminCommand struct {
	Email    string
	Password string
}

// Validate checks the command fields.
func (c LoginAdminCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("login_admin: email is required")
	}
	if c.Password == "" {
		return errors.New("login_admin: password is required")
	}
	return nil
}

// LoginAdminResult is the session the handler returns on success.
type LoginAdminResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	AdminID   string    `json:"adminId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
}

// LoginAdminHandler authenticates admins.
type LoginAdminHandler struct {
	adminRepo      admin.Repository
	passwords      PasswordVerifier
	tokens         TokenIssuer
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewLoginAdminHandler creates the login handler.
func NewLoginAdminHandler(
	adminRepo admin.Repository,
	passwords PasswordVerifier,
	tokens TokenIssuer,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *LoginAdminHandler {
	if log == nil {
		log = logger.Default()
	}
	return &LoginAdminHandler{
		adminRepo:      adminRepo,
		passwords:      passwords,
		tokens:         tokens,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Handle authenticates and issues a token.
func (h *LoginAdminHandler) Handle(ctx context.Context, cmd LoginAdminCommand) (*LoginAdminResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "LoginAdmin", shared.ErrValidation, err.Error(), err)
	}

	email := shared.Email(strings.ToLower(strings.TrimSpace(cmd.Email)))

	user, err := h.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		h.log.Warn("login rejected", logger.Email(email.String()))
		return nil, shared.ErrInvalidCredentials
	}

	if err := h.passwords.Verify(user.PasswordHash, cmd.Password); err != nil {
		h.log.Warn("login rejected", logger.Email(email.String()))
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := h.tokens.Issue(user.ID.String(), user.Email.String(), user.Role.String())
	if err != nil {
		return nil, shared.WrapError("command", "LoginAdmin", shared.ErrExternalService, "failed to issue session token", err)
	}

	if err := h.adminRepo.RecordLogin(ctx, user.ID); err != nil {
		// Stamping the login is best effort.
		h.log.Warn("failed to record login time", logger.AdminID(user.ID.String()), logger.Err(err))
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewAdminLoggedInEvent(user.ID.String(), user.Email.String()))
	}

	h.log.Info("admin logged in",
		logger.AdminID(user.ID.String()),
		logger.Email(user.Email.String()),
		logger.Time("expires_at", timeutil.ToUTC(expiresAt)),
	)

	return &LoginAdminResult{
		Token:     token,
		ExpiresAt: expiresAt,
		AdminID:   user.ID.String(),
		Email:     user.Email.String(),
		Name:      user.Name,
		Role:      user.Role.String(),
	}, nil
}
