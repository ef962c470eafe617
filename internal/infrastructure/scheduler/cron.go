package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CronSchedule fires on a standard 5-field cron expression
// (minute hour day-of-month month day-of-week). Each field accepts "*",
// "*/step", single values, ranges ("1-5") and comma lists. Day-of-month and
// day-of-week combine with OR when both are restricted, matching cron
// convention.
type CronSchedule struct {
	expr     string
	minutes  fieldSet
	hours    fieldSet
	days     fieldSet
	months   fieldSet
	weekdays fieldSet
}

type fieldSet struct {
	values     map[int]bool
	restricted bool
}

func (f fieldSet) match(v int) bool {
	return !f.restricted || f.values[v]
}

// ParseCron parses an expression like "0 0 * * *" (midnight daily).
func ParseCron(expr string) (*CronSchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron %q: want 5 fields, got %d", expr, len(fields))
	}

	bounds := []struct{ min, max int }{
		{0, 59}, // minute
		{0, 23}, // hour
		{1, 31}, // day of month
		{1, 12}, // month
		{0, 6},  // day of week, 0 is Sunday
	}

	sets := make([]fieldSet, 5)
	for i, field := range fields {
		set, err := parseField(field, bounds[i].min, bounds[i].max)
		if err != nil {
			return nil, fmt.Errorf("cron %q: field %d: %w", expr, i+1, err)
		}
		sets[i] = set
	}

	return &CronSchedule{
		expr:     expr,
		minutes:  sets[0],
		hours:    sets[1],
		days:     sets[2],
		months:   sets[3],
		weekdays: sets[4],
	}, nil
}

// MustParseCron is ParseCron for expressions fixed at compile time.
func MustParseCron(expr string) *CronSchedule {
	s, err := ParseCron(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func parseField(field string, min, max int) (fieldSet, error) {
	if field == "*" {
		return fieldSet{}, nil
	}

	set := fieldSet{values: make(map[int]bool), restricted: true}
	for _, part := range strings.Split(field, ",") {
		lo, hi, step := min, max, 1

		if rest, ok := strings.CutPrefix(part, "*/"); ok {
			n, err := strconv.Atoi(rest)
			if err != nil || n <= 0 {
				return fieldSet{}, fmt.Errorf("bad step %q", part)
			}
			step = n
		} else if a, b, ok := strings.Cut(part, "-"); ok {
			var err error
			if lo, err = strconv.Atoi(a); err != nil {
				return fieldSet{}, fmt.Errorf("bad range %q", part)
			}
			if hi, err = strconv.Atoi(b); err != nil {
				return fieldSet{}, fmt.Errorf("bad range %q", part)
			}
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return fieldSet{}, fmt.Errorf("bad value %q", part)
			}
			lo, hi = n, n
		}

		if lo < min || hi > max || lo > hi {
			return fieldSet{}, fmt.Errorf("%q out of range %d-%d", part, min, max)
		}
		for v := lo; v <= hi; v += step {
			set.values[v] = true
		}
	}
	return set, nil
}

// Next returns the first matching minute strictly after t.
func (c *CronSchedule) Next(t time.Time) time.Time {
	// Scan minute by minute from the next whole minute. Four years bounds
	// the search past any leap-day expression.
	candidate := t.Truncate(time.Minute).Add(time.Minute)
	limit := t.AddDate(4, 0, 1)

	for candidate.Before(limit) {
		if c.matches(candidate) {
			return candidate
		}
		candidate = candidate.Add(time.Minute)
	}
	return time.Time{}
}

func (c *CronSchedule) matches(t time.Time) bool {
	if !c.minutes.match(t.Minute()) || !c.hours.match(t.Hour()) || !c.months.match(int(t.Month())) {
		return false
	}

	dayOK := c.days.match(t.Day())
	weekdayOK := c.weekdays.match(int(t.Weekday()))
	if c.days.restricted && c.weekdays.restricted {
		return dayOK || weekdayOK
	}
	return dayOK && weekdayOK
}

// String returns the original expression.
func (c *CronSchedule) String() string {
	return c.expr
}
