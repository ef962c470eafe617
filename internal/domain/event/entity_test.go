package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

func TestNew(t *testing.T) {
	e, err := New(" International Week ", " Main Gymnasium ", "2026-09-20")
	require.NoError(t, err)
	assert.Equal(t, "International Week", e.Title)
	assert.Equal(t, "Main Gymnasium", e.Place)
	assert.True(t, e.ID.IsValid())
}

func TestNew_EmptyTitle(t *testing.T) {
	_, err := New("", "Gym", "2026-09-20")
	assert.Error(t, err)
}

func TestEvent_IsUpcoming(t *testing.T) {
	today := timeutil.ISODate("2026-06-15")
	assert.True(t, (&Event{EventDate: "2026-06-15"}).IsUpcoming(today))
	assert.True(t, (&Event{EventDate: "2027-01-01"}).IsUpcoming(today))
	assert.False(t, (&Event{EventDate: "2026-06-14"}).IsUpcoming(today))
	assert.False(t, (&Event{}).IsUpcoming(today))
}

func TestEvent_InYear(t *testing.T) {
	assert.True(t, (&Event{EventDate: "2026-01-01"}).InYear(2026))
	assert.True(t, (&Event{EventDate: "2026-12-31"}).InYear(2026))
	assert.False(t, (&Event{EventDate: "2025-12-31"}).InYear(2026))
	assert.False(t, (&Event{}).InYear(2026))
}

func TestCountInYear(t *testing.T) {
	events := []*Event{
		{EventDate: "2026-02-01"},
		{EventDate: "2026-11-15"},
		{EventDate: "2025-06-01"},
		{},
	}
	assert.Equal(t, 2, CountInYear(events, 2026))
}
