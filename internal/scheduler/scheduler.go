// internal/scheduler/scheduler.go

// Package scheduler triggers configured jobs on cron schedules and runs each
// one through the lock executor, so a job fires on at most one node per tick.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/taskfence/taskfence/internal/locking"
	"github.com/taskfence/taskfence/internal/observability"
)

// Job describes one scheduled, lock-guarded task
type Job struct {
	// Name is the lock name and log identity of the job
	Name string

	// Schedule is a standard cron expression
	Schedule string

	// LockAtMostFor bounds how long the lock may outlive a crashed run
	LockAtMostFor time.Duration

	// LockAtLeastFor is the minimum lock hold after a run completes
	LockAtLeastFor time.Duration

	// Task is the work to run
	Task locking.Task
}

// Scheduler owns the cron runner and the registered jobs
type Scheduler struct {
	cron     *cron.Cron
	executor *locking.Executor
	logger   *observability.SLogger
	entries  map[string]cron.EntryID
}

// New creates a scheduler over the given executor
func New(executor *locking.Executor, logger *observability.SLogger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		executor: executor,
		logger:   logger,
		entries:  make(map[string]cron.EntryID),
	}
}

// AddJob registers a job, replacing any previous job with the same name
func (s *Scheduler) AddJob(job Job) error {
	if entryID, ok := s.entries[job.Name]; ok {
		s.cron.Remove(entryID)
	}

	wrapper := &jobWrapper{
		job:      job,
		executor: s.executor,
		logger:   s.logger,
	}

	entryID, err := s.cron.AddJob(job.Schedule, wrapper)
	if err != nil {
		s.logger.Errorf("Failed to add job %q to cron: %v", job.Name, err)
		return err
	}

	s.entries[job.Name] = entryID
	s.logger.Infof("Scheduled job %q with schedule %q", job.Name, job.Schedule)
	return nil
}

// RemoveJob unregisters a job by name
func (s *Scheduler) RemoveJob(name string) {
	if entryID, ok := s.entries[name]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, name)
		s.logger.Infof("Removed job %q from scheduler", name)
	}
}

// Start runs the scheduler until ctx is cancelled, then waits for running
// jobs to finish
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Scheduler started")
	s.cron.Start()

	<-ctx.Done()

	s.logger.Info("Scheduler stopping")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")

	return ctx.Err()
}

// jobWrapper adapts a Job to the cron.Job interface
type jobWrapper struct {
	job      Job
	executor *locking.Executor
	logger   *observability.SLogger
}

// Run is called by cron on every tick of the job's schedule
func (w *jobWrapper) Run() {
	runID := uuid.NewString()
	ctx := context.Background()

	executed, err := w.executor.Run(ctx, w.job.Name, w.job.LockAtMostFor, w.job.LockAtLeastFor, w.job.Task)
	if err != nil {
		w.logger.Errorw("Job run failed",
			"job", w.job.Name,
			"run_id", runID,
			"executed", executed,
			"error", err,
		)
		return
	}

	if executed {
		w.logger.Infow("Job run finished", "job", w.job.Name, "run_id", runID)
	}
}
