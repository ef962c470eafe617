package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISODate_Ordering(t *testing.T) {
	a := ISODate("2024-01-01")
	b := ISODate("2025-06-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.OnOrBefore(a))
	assert.True(t, a.OnOrAfter(a))
	assert.False(t, b.OnOrBefore(a))
}

func TestISODate_IsValid(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"2024-01-01", true},
		{"2024-12-31", true},
		{"2024-13-01", false},
		{"2024-02-30", false},
		{"01-01-2024", false},
		{"2024-1-1", false},
		{"", false},
		{"not-a-date", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ISODate(tt.raw).IsValid(), "raw=%q", tt.raw)
	}
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, ISODate("2025-06-01"), d)

	// Empty input means "not set", not an error.
	d, err = ParseISODate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseISODate("June 1, 2025")
	assert.Error(t, err)
}

func TestISODate_Time(t *testing.T) {
	d := ISODate("2025-06-01")
	parsed, err := d.Time()
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.June, parsed.Month())
	assert.Equal(t, 1, parsed.Day())

	_, err = ISODate("").Time()
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	// 2025-06-01 18:00 UTC is already 2025-06-02 02:00 in Davao.
	utc := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, ISODate("2025-06-02"), DateOf(utc))
}

func TestISODate_AddDays(t *testing.T) {
	d := ISODate("2025-03-01")

	assert.Equal(t, ISODate("2025-02-28"), d.AddDays(-1))
	assert.Equal(t, ISODate("2025-03-08"), d.AddDays(7))
	assert.Equal(t, ISODate("2024-12-31"), ISODate("2025-01-01").AddDays(-1))

	// An unparseable date comes back unchanged.
	assert.Equal(t, ISODate("bogus"), ISODate("bogus").AddDays(3))
}
