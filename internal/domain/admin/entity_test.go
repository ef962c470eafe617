package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

func TestNew(t *testing.T) {
	u, err := New(" Staff@ERIO.Example.EDU ", " Office Staff ", "$2a$10$hash")
	require.NoError(t, err)
	assert.Equal(t, "staff@erio.example.edu", u.Email.String())
	assert.Equal(t, "Office Staff", u.Name)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Nil(t, u.LastLoginAt)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("not-an-email", "X", "$2a$10$hash")
	assert.Error(t, err)

	_, err = New("staff@erio.example.edu", "X", "")
	assert.Error(t, err)
}

func TestUser_RecordLogin(t *testing.T) {
	u, err := New("staff@erio.example.edu", "X", "$2a$10$hash")
	require.NoError(t, err)

	now := timeutil.Now()
	u.RecordLogin(now)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, now, *u.LastLoginAt)
}
