// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskfence/taskfence/internal/cache/memory"
	"github.com/taskfence/taskfence/internal/locking"
	"github.com/taskfence/taskfence/internal/observability"
)

func setupScheduler(t *testing.T) (*Scheduler, *locking.CacheProvider) {
	t.Helper()

	logger, _, err := observability.NewTestLogger()
	require.NoError(t, err)

	kv, err := memory.New(nil, logger)
	require.NoError(t, err)

	provider := locking.NewCacheProvider(kv, logger)
	executor := locking.NewExecutor(provider, logger, nil)

	return New(executor, logger), provider
}

func testJob(name string, task locking.Task) Job {
	return Job{
		Name:          name,
		Schedule:      "* * * * *",
		LockAtMostFor: time.Minute,
		Task:          task,
	}
}

func TestAddJob(t *testing.T) {
	s, _ := setupScheduler(t)

	require.NoError(t, s.AddJob(testJob("report", func(ctx context.Context) error { return nil })))
	assert.Len(t, s.entries, 1)

	// Re-adding replaces the previous entry
	require.NoError(t, s.AddJob(testJob("report", func(ctx context.Context) error { return nil })))
	assert.Len(t, s.entries, 1)
}

func TestAddJobInvalidSchedule(t *testing.T) {
	s, _ := setupScheduler(t)

	job := testJob("report", func(ctx context.Context) error { return nil })
	job.Schedule = "not a cron expression"

	assert.Error(t, s.AddJob(job))
	assert.Empty(t, s.entries)
}

func TestRemoveJob(t *testing.T) {
	s, _ := setupScheduler(t)

	require.NoError(t, s.AddJob(testJob("report", func(ctx context.Context) error { return nil })))
	s.RemoveJob("report")
	assert.Empty(t, s.entries)

	// Removing an unknown job is a no-op
	s.RemoveJob("never-added")
}

func TestJobWrapperRunsTask(t *testing.T) {
	s, _ := setupScheduler(t)

	ran := make(chan struct{}, 1)
	w := &jobWrapper{
		job: testJob("report", func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		}),
		executor: s.executor,
		logger:   s.logger,
	}

	w.Run()

	select {
	case <-ran:
	default:
		t.Fatal("task did not run")
	}
}

func TestJobWrapperSkipsWhenLockHeld(t *testing.T) {
	s, provider := setupScheduler(t)

	handle, err := provider.Acquire(context.Background(), locking.Spec{
		Name:            "report",
		LockAtMostUntil: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)
	require.NotNil(t, handle)

	w := &jobWrapper{
		job: testJob("report", func(ctx context.Context) error {
			t.Fatal("task must not run while the lock is held")
			return nil
		}),
		executor: s.executor,
		logger:   s.logger,
	}

	w.Run()
}

func TestStartStopsOnCancel(t *testing.T) {
	s, _ := setupScheduler(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
