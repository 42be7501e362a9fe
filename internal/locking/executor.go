// internal/locking/executor.go
package locking

import (
	"context"
	"errors"
	"time"

	"github.com/taskfence/taskfence/internal/observability"
)

// Task is a unit of work guarded by a lock
type Task func(ctx context.Context) error

// Executor runs tasks under a distributed lock so that a named task executes
// on at most one node at a time. When the lock is contended the task is
// skipped, not queued.
type Executor struct {
	provider Provider
	logger   *observability.SLogger
	metrics  *observability.OTelMetrics
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an executor over the given lock provider. metrics may
// be nil.
func NewExecutor(provider Provider, logger *observability.SLogger, metrics *observability.OTelMetrics) *Executor {
	return &Executor{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes task under the named lock. It returns false when the lock was
// held elsewhere and the task was skipped. After the task finishes, the lock
// is kept until lockAtLeastFor has elapsed before it is released, so rapid
// completions do not let the task fire again elsewhere immediately.
func (e *Executor) Run(ctx context.Context, name string, lockAtMostFor, lockAtLeastFor time.Duration, task Task) (bool, error) {
	start := e.now()
	spec := Spec{
		Name:             name,
		LockAtMostUntil:  start.Add(lockAtMostFor),
		LockAtLeastUntil: start.Add(lockAtLeastFor),
	}

	handle, err := e.provider.Acquire(ctx, spec)
	if err != nil {
		return false, err
	}
	if handle == nil {
		e.logger.Infof("Task %q skipped, lock held elsewhere", name)
		e.count(ctx, "taskfence.task.skipped", name)
		return false, nil
	}

	taskErr := e.runTask(ctx, name, task)

	if hold := handle.LockAtLeastUntil().Sub(e.now()); hold > 0 {
		if err := e.sleep(ctx, hold); err != nil {
			e.logger.Warnf("Minimum hold for task %q interrupted: %v", name, err)
		}
	}

	releaseErr := handle.Release(ctx)
	if releaseErr != nil {
		e.logger.Errorf("Release after task %q failed, TTL will expire the lock: %v", name, releaseErr)
	}

	return true, errors.Join(taskErr, releaseErr)
}

// runTask invokes the task, converting a panic into an error so the lock is
// still released.
func (e *Executor) runTask(ctx context.Context, name string, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TaskPanicError{Name: name, Value: r}
			e.logger.Errorf("Task %q panicked: %v", name, r)
		}
	}()

	start := e.now()
	err = task(ctx)

	if e.metrics != nil {
		if mErr := e.metrics.RecordLatency(ctx, e.now().Sub(start), "task", name); mErr != nil {
			e.logger.Errorf("Failed to record task latency: %v", mErr)
		}
	}
	if err != nil {
		e.count(ctx, "taskfence.task.failed", name)
	} else {
		e.count(ctx, "taskfence.task.completed", name)
	}

	return err
}

func (e *Executor) count(ctx context.Context, metric, task string) {
	if e.metrics != nil {
		e.metrics.Increment(ctx, metric, 1, "task", task)
	}
}

// TaskPanicError reports a task that panicked while holding its lock
type TaskPanicError struct {
	Name  string
	Value any
}

func (e *TaskPanicError) Error() string {
	return "task " + e.Name + " panicked"
}
