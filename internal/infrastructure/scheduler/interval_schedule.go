package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule fires a fixed duration after the previous run. The
// backfill and cache-warm jobs use it; anything calendar-aligned should
// use a CronSchedule instead.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a schedule that fires every interval.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: interval}
}

// Next returns t plus the interval.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}
