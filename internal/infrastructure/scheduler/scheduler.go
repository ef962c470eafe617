// Package scheduler runs the dashboard's periodic jobs: the nightly
// view-counter rollup, the partner geocode backfill and stats cache warming.
// Jobs declare a Schedule (cron expression or fixed interval); the scheduler
// polls once a second and fires whatever is due.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is one unit of periodic work.
type Job interface {
	// Name identifies the job in logs and must be unique per scheduler.
	Name() string

	// Run does the work. The context is cancelled when the scheduler
	// stops.
	Run(ctx context.Context) error

	// Description says what the job does, for the startup log.
	Description() string
}

// Schedule decides when a job fires.
type Schedule interface {
	// Next returns the first fire time strictly after t.
	Next(t time.Time) time.Time

	// String renders the schedule for logs.
	String() string
}

var (
	ErrAlreadyRunning = errors.New("scheduler: already running")
	ErrNotRunning     = errors.New("scheduler: not running")
)

type entry struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
}

// Scheduler fires registered jobs on their schedules. Register everything
// before Start; registration after Start is rejected.
type Scheduler struct {
	mu       sync.Mutex
	entries  map[string]*entry
	location *time.Location
	log      *slog.Logger
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a scheduler evaluating schedules in loc (nil means UTC).
func New(loc *time.Location, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		entries:  make(map[string]*entry),
		location: loc,
		log:      log,
	}
}

// Register adds a job.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil || schedule == nil {
		return errors.New("scheduler: job and schedule are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	name := job.Name()
	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("scheduler: job %q registered twice", name)
	}

	s.entries[name] = &entry{job: job, schedule: schedule}
	s.log.Info("job registered",
		"job", name,
		"description", job.Description(),
		"schedule", schedule.String(),
	)
	return nil
}

// Start begins the polling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	ctx, s.cancel = context.WithCancel(ctx)
	now := time.Now().In(s.location)
	for _, e := range s.entries {
		e.nextRun = e.schedule.Next(now)
	}
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx)

	s.log.Info("scheduler started", "jobs", len(s.entries))
	return nil
}

// Stop halts the loop and waits for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fireDue(ctx)
		}
	}
}

func (s *Scheduler) fireDue(ctx context.Context) {
	now := time.Now().In(s.location)

	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !e.nextRun.IsZero() && now.After(e.nextRun) {
			e.nextRun = e.schedule.Next(now)
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		s.wg.Add(1)
		go s.run(ctx, e.job)
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer s.wg.Done()

	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		s.log.Error("job failed", "job", job.Name(), "duration", elapsed.String(), "error", err)
		return
	}
	s.log.Info("job completed", "job", job.Name(), "duration", elapsed.String())
}
