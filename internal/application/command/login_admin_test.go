package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/admin"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

type stubAdminRepo struct {
	user        *admin.User
	loginStamps int
}

func (s *stubAdminRepo) Create(context.Context, *admin.User) error { return nil }
func (s *stubAdminRepo) GetByEmail(_ context.Context, email shared.Email) (*admin.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrAdminNotFound
	}
	return s.user, nil
}
func (s *stubAdminRepo) GetByID(context.Context, shared.EntityID) (*admin.User, error) {
	return s.user, nil
}
func (s *stubAdminRepo) RecordLogin(context.Context, shared.EntityID) error {
	s.loginStamps++
	return nil
}

type stubVerifier struct{ fail bool }

func (s stubVerifier) Verify(hash, password string) error {
	if s.fail {
		return errors.New("mismatch")
	}
	return nil
}

type stubIssuer struct{ fail bool }

func (s stubIssuer) Issue(adminID, email, role string) (string, time.Time, error) {
	if s.fail {
		return "", time.Time{}, errors.New("signing failed")
	}
	return "token-for-" + adminID, time.Now().Add(24 * time.Hour), nil
}

func testAdmin(t *testing.T) *admin.User {
	t.Helper()
	u, err := admin.New("staff@erio.example.edu", "Office Staff", "$2a$10$hash")
	require.NoError(t, err)
	return u
}

func TestLoginAdmin_Success(t *testing.T) {
	repo := &stubAdminRepo{user: testAdmin(t)}
	h := NewLoginAdminHandler(repo, stubVerifier{}, stubIssuer{}, nil, nil)

	result, err := h.Handle(context.Background(), LoginAdminCommand{
		Email:    " Staff@ERIO.Example.EDU ",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "staff@erio.example.edu", result.Email)
	assert.Equal(t, 1, repo.loginStamps)
}

func TestLoginAdmin_UnknownEmail(t *testing.T) {
	h := NewLoginAdminHandler(&stubAdminRepo{}, stubVerifier{}, stubIssuer{}, nil, nil)

	_, err := h.Handle(context.Background(), LoginAdminCommand{
		Email:    "nobody@erio.example.edu",
		Password: "secret",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginAdmin_WrongPassword(t *testing.T) {
	repo := &stubAdminRepo{user: testAdmin(t)}
	h := NewLoginAdminHandler(repo, stubVerifier{fail: true}, stubIssuer{}, nil, nil)

	_, err := h.Handle(context.Background(), LoginAdminCommand{
		Email:    "staff@erio.example.edu",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.Equal(t, 0, repo.loginStamps)
}

func TestLoginAdmin_MissingFields(t *testing.T) {
	h := NewLoginAdminHandler(&stubAdminRepo{}, stubVerifier{}, stubIssuer{}, nil, nil)

	_, err := h.Handle(context.Background(), LoginAdminCommand{Email: "", Password: "x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = h.Handle(context.Background(), LoginAdminCommand{Email: "a@b.edu", Password: ""})
	assert.Error(t, err)
}
