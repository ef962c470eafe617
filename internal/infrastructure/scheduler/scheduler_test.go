package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int32
}

func (j *countingJob) Name() string              { return j.name }
func (j *countingJob) Description() string       { return "counts its runs" }
func (j *countingJob) Run(context.Context) error { j.runs.Add(1); return nil }

func quietScheduler() *Scheduler {
	return New(time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScheduler_RejectsDuplicateAndLateRegistration(t *testing.T) {
	s := quietScheduler()
	job := &countingJob{name: "rollup"}

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))
	assert.Error(t, s.Register(&countingJob{name: "rollup"}, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	assert.ErrorIs(t, s.Register(&countingJob{name: "late"}, NewIntervalSchedule(time.Hour)), ErrAlreadyRunning)
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
}

func TestScheduler_FiresDueJobsAndAdvancesNextRun(t *testing.T) {
	s := quietScheduler()
	job := &countingJob{name: "rollup"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	// Make the job due without waiting for the polling loop.
	s.entries["rollup"].nextRun = time.Now().Add(-time.Minute)
	s.fireDue(context.Background())
	s.wg.Wait()

	assert.Equal(t, int32(1), job.runs.Load())
	assert.True(t, s.entries["rollup"].nextRun.After(time.Now()))

	// Not due again until the schedule says so.
	s.fireDue(context.Background())
	s.wg.Wait()
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.ErrorIs(t, quietScheduler().Stop(), ErrNotRunning)
}
