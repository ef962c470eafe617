// Package timeutil provides timezone and calendar-date utilities for the
// ERIO Dashboard. The office operates from Davao City, Philippines (UTC+8),
// and all agreement dates are stored as ISO calendar dates.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DavaoTZ is the Philippine timezone (UTC+8, no DST).
// The Philippines has not observed DST since 1990, so this is constant.
var DavaoTZ = time.FixedZone("Asia/Manila", 8*60*60)

// Now returns the current time in Davao timezone.
func Now() time.Time {
	return time.Now().In(DavaoTZ)
}

// ToDavao converts a time to Davao timezone.
func ToDavao(t time.Time) time.Time {
	return t.In(DavaoTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// StartOfDay returns the start of the day (00:00:00) in Davao timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToDavao(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, DavaoTZ)
}

// ISODateLayout is the calendar date layout used across the dashboard.
const ISODateLayout = "2006-01-02"

// ISODate is a calendar date in "YYYY-MM-DD" form. The empty string means
// the date is not set. Because the format is fixed-width with the most
// significant component first, ordering two ISODates is plain string
// comparison - the same convention the partner agreement fields rely on.
type ISODate string

// Today returns the current calendar date in Davao timezone.
func Today() ISODate {
	return ISODate(Now().Format(ISODateLayout))
}

// DateOf converts a time to its calendar date in Davao timezone.
func DateOf(t time.Time) ISODate {
	return ISODate(ToDavao(t).Format(ISODateLayout))
}

// IsZero reports whether the date is unset.
func (d ISODate) IsZero() bool {
	return d == ""
}

// IsValid reports whether the date parses as a real "YYYY-MM-DD" date.
// The empty value is not valid; callers should check IsZero first when
// absence is allowed.
func (d ISODate) IsValid() bool {
	if len(d) != len(ISODateLayout) {
		return false
	}
	_, err := time.Parse(ISODateLayout, string(d))
	return err == nil
}

// String returns the string representation of the date.
func (d ISODate) String() string {
	return string(d)
}

// Before reports whether d is strictly earlier than other.
func (d ISODate) Before(other ISODate) bool {
	return string(d) < string(other)
}

// After reports whether d is strictly later than other.
func (d ISODate) After(other ISODate) bool {
	return string(d) > string(other)
}

// OnOrBefore reports whether d is earlier than or equal to other.
func (d ISODate) OnOrBefore(other ISODate) bool {
	return string(d) <= string(other)
}

// OnOrAfter reports whether d is later than or equal to other.
func (d ISODate) OnOrAfter(other ISODate) bool {
	return string(d) >= string(other)
}

// Time parses the date as midnight in Davao timezone.
func (d ISODate) Time() (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, fmt.Errorf("timeutil: date is not set")
	}
	return time.ParseInLocation(ISODateLayout, string(d), DavaoTZ)
}

// ParseISODate validates and normalizes a raw date string. The empty string
// maps to the zero ISODate without error; anything else must be a valid
// "YYYY-MM-DD" date.
func ParseISODate(raw string) (ISODate, error) {
	if raw == "" {
		return "", nil
	}
	d := ISODate(raw)
	if !d.IsValid() {
		return "", fmt.Errorf("timeutil: invalid ISO date %q", raw)
	}
	return d, nil
}

// AddDays returns the date shifted by n calendar days. The zero date stays
// zero.
func (d ISODate) AddDays(n int) ISODate {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// FormatDisplayDate renders a time the way the dashboard shows activity
// dates (e.g. "January 2, 2026").
func FormatDisplayDate(t time.Time) string {
	return ToDavao(t).Format("January 2, 2006")
}
