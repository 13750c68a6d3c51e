package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingTask struct {
	Task
	mu       sync.Mutex
	runs     int
	failures int
	done     chan struct{}
}

func newCountingTask(failures, maxRetries int) *countingTask {
	return &countingTask{
		Task:     NewTask(TaskTypeCrawl, "test", maxRetries),
		failures: failures,
		done:     make(chan struct{}, 10),
	}
}

func (c *countingTask) Execute(ctx context.Context) error {
	c.mu.Lock()
	c.runs++
	fail := c.runs <= c.failures
	c.mu.Unlock()

	c.done <- struct{}{}
	if fail {
		return errors.New("transient failure")
	}
	return nil
}

func (c *countingTask) Runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

func waitFor(t *testing.T, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for task execution")
	}
}

func TestNewScheduler(t *testing.T) {
	scheduler := NewScheduler(2, nil)

	if scheduler.workerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", scheduler.workerCount)
	}
	if cap(scheduler.taskQueue) != 300 {
		t.Errorf("Expected queue capacity 300, got %d", cap(scheduler.taskQueue))
	}
}

func TestSchedulerExecutesTask(t *testing.T) {
	scheduler := NewScheduler(1, time.UTC)
	scheduler.Start()
	defer scheduler.Stop()

	task := newCountingTask(0, 0)
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	waitFor(t, task.done, time.Second)

	if task.StartedAt == nil {
		t.Error("Expected task to be started")
	}
}

func TestSchedulerRetriesFailedTask(t *testing.T) {
	scheduler := NewScheduler(1, time.UTC)
	scheduler.Start()
	defer scheduler.Stop()

	task := newCountingTask(1, 1)
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	waitFor(t, task.done, time.Second)
	waitFor(t, task.done, 3*time.Second)

	if task.Runs() != 2 {
		t.Errorf("Expected 2 runs, got %d", task.Runs())
	}
	if task.GetRetryCount() != 1 {
		t.Errorf("Expected retry count 1, got %d", task.GetRetryCount())
	}
}

func TestSchedulerDoesNotRetryWithoutBudget(t *testing.T) {
	scheduler := NewScheduler(1, time.UTC)
	scheduler.Start()
	defer scheduler.Stop()

	task := newCountingTask(5, 0)
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	waitFor(t, task.done, time.Second)
	time.Sleep(1500 * time.Millisecond)

	if task.Runs() != 1 {
		t.Errorf("Expected a single run, got %d", task.Runs())
	}
}

func TestSchedulerQueueFull(t *testing.T) {
	scheduler := NewScheduler(0, time.UTC)

	for i := 0; i < queueSize; i++ {
		if err := scheduler.EnqueueTask(newCountingTask(0, 0)); err != nil {
			t.Fatalf("EnqueueTask %d failed: %v", i, err)
		}
	}

	if err := scheduler.EnqueueTask(newCountingTask(0, 0)); err == nil {
		t.Error("Expected queue full error")
	}
}

func TestSchedulerRejectsAfterStop(t *testing.T) {
	scheduler := NewScheduler(1, time.UTC)
	scheduler.Start()
	scheduler.Stop()

	if err := scheduler.EnqueueTask(newCountingTask(0, 0)); err == nil {
		t.Error("Expected enqueue to fail after stop")
	}
}

func TestSchedulerSchedule(t *testing.T) {
	scheduler := NewScheduler(1, time.UTC)

	if err := scheduler.Schedule("not a cron spec", func() TaskInterface { return newCountingTask(0, 0) }); err == nil {
		t.Error("Expected error for invalid schedule")
	}

	var built atomic.Int32
	task := newCountingTask(0, 0)
	err := scheduler.Schedule("@every 1s", func() TaskInterface {
		built.Add(1)
		return task
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	waitFor(t, task.done, 3*time.Second)

	if built.Load() == 0 {
		t.Error("Expected the scheduled factory to run")
	}
}
