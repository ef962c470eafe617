package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed
}

func TestParseCron_Rejects(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"too few fields", "0 0 * *"},
		{"too many fields", "0 0 * * * *"},
		{"minute out of range", "60 0 * * *"},
		{"bad step", "*/0 * * * *"},
		{"inverted range", "30-10 * * * *"},
		{"not a number", "x * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCron(tt.expr)
			assert.Error(t, err)
		})
	}
}

func TestCronSchedule_Next(t *testing.T) {
	tests := []struct {
		name string
		expr string
		from string
		want string
	}{
		{"midnight daily", "0 0 * * *", "2026-06-15 13:37", "2026-06-16 00:00"},
		{"midnight daily at midnight", "0 0 * * *", "2026-06-16 00:00", "2026-06-17 00:00"},
		{"every five minutes", "*/5 * * * *", "2026-06-15 13:37", "2026-06-15 13:40"},
		{"hourly on the hour", "0 * * * *", "2026-06-15 13:00", "2026-06-15 14:00"},
		{"weekly sunday", "0 6 * * 0", "2026-06-15 13:37", "2026-06-21 06:00"},
		{"first of month", "30 8 1 * *", "2026-06-15 13:37", "2026-07-01 08:30"},
		{"range of hours", "0 9-11 * * *", "2026-06-15 10:15", "2026-06-15 11:00"},
		{"list of minutes", "15,45 * * * *", "2026-06-15 13:20", "2026-06-15 13:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := ParseCron(tt.expr)
			require.NoError(t, err)
			got := schedule.Next(mustTime(t, tt.from))
			assert.Equal(t, mustTime(t, tt.want), got)
		})
	}
}

func TestCronSchedule_DayAndWeekdayCombineWithOr(t *testing.T) {
	// 2026-06-15 is a Monday; the 20th is a Saturday.
	schedule := MustParseCron("0 0 20 * 1")

	next := schedule.Next(mustTime(t, "2026-06-15 13:37"))
	// Day-of-week match (Monday the 22nd) comes after day-of-month match
	// (Saturday the 20th); the earlier one wins.
	assert.Equal(t, mustTime(t, "2026-06-20 00:00"), next)
}

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(30 * time.Minute)
	from := mustTime(t, "2026-06-15 13:00")
	assert.Equal(t, mustTime(t, "2026-06-15 13:30"), s.Next(from))
	assert.Equal(t, "@every 30m0s", s.String())
}
