package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

func TestNew(t *testing.T) {
	a, err := New("  MOU Signing with Sophia University  ", " Ceremony at main campus ", "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "MOU Signing with Sophia University", a.Title)
	assert.Equal(t, "Ceremony at main campus", a.Description)
	assert.True(t, a.ID.IsValid())
}

func TestNew_EmptyTitle(t *testing.T) {
	_, err := New("   ", "desc", "2026-03-10")
	assert.Error(t, err)
}

func TestNew_MalformedDate(t *testing.T) {
	_, err := New("Orientation", "", "March 2026")
	assert.Error(t, err)
}

func TestNew_UndatedAllowed(t *testing.T) {
	a, err := New("Orientation", "", "")
	require.NoError(t, err)
	assert.True(t, a.ActivityDate.IsZero())
}

func TestActivity_IsUpcoming(t *testing.T) {
	today := timeutil.ISODate("2026-06-15")

	tests := []struct {
		name string
		date timeutil.ISODate
		want bool
	}{
		{"future", "2026-07-01", true},
		{"today", "2026-06-15", true},
		{"past", "2026-06-14", false},
		{"undated", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Activity{ActivityDate: tt.date}
			assert.Equal(t, tt.want, a.IsUpcoming(today))
		})
	}
}

func TestActivity_DisplayDate(t *testing.T) {
	a := &Activity{ActivityDate: "2026-03-10"}
	assert.Equal(t, "March 10, 2026", a.DisplayDate())

	undated := &Activity{}
	assert.Equal(t, "", undated.DisplayDate())
}
