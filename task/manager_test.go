package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/usarops/readiness"
)

func snapshotWork(id string) Work {
	return func(ctx context.Context) (*readiness.Snapshot, error) {
		score := 100.0
		return &readiness.Snapshot{TaskForceID: id, CompositeScore: &score, Status: readiness.StatusReady}, nil
	}
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager()
	defer m.Shutdown(context.Background())

	if m.config.Workers != 10 {
		t.Errorf("Workers = %d, want 10", m.config.Workers)
	}
	if m.config.TaskTimeout != 5*time.Second {
		t.Errorf("TaskTimeout = %v, want 5s", m.config.TaskTimeout)
	}
}

func TestManager_SubmitAndAwait(t *testing.T) {
	m := NewManager(Config{Workers: 2})
	defer m.Shutdown(context.Background())

	h, err := m.SubmitOrJoin("readiness:CA-TF1:abc", snapshotWork("CA-TF1"))
	if err != nil {
		t.Fatalf("SubmitOrJoin failed: %v", err)
	}

	snap, err := m.Await(context.Background(), h, time.Second)
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if snap.TaskForceID != "CA-TF1" {
		t.Errorf("TaskForceID = %q, want CA-TF1", snap.TaskForceID)
	}

	metrics := m.Metrics()
	if metrics.Completed != 1 {
		t.Errorf("Completed = %d, want 1", metrics.Completed)
	}
}

func TestManager_JoinCoalescesConcurrentSubmits(t *testing.T) {
	m := NewManager(Config{Workers: 4})
	defer m.Shutdown(context.Background())

	var executions int64
	release := make(chan struct{})
	work := func(ctx context.Context) (*readiness.Snapshot, error) {
		atomic.AddInt64(&executions, 1)
		<-release
		score := 75.0
		return &readiness.Snapshot{TaskForceID: "CA-TF1", CompositeScore: &score}, nil
	}

	const callers = 20
	handles := make([]*Handle, callers)
	for i := 0; i < callers; i++ {
		h, err := m.SubmitOrJoin("same-key", work)
		if err != nil {
			t.Fatalf("SubmitOrJoin %d failed: %v", i, err)
		}
		handles[i] = h
	}

	// All handles must reference the same task.
	for i := 1; i < callers; i++ {
		if handles[i].TaskID() != handles[0].TaskID() {
			t.Errorf("handle %d joined task %s, want %s", i, handles[i].TaskID(), handles[0].TaskID())
		}
	}

	close(release)

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *Handle) {
			defer wg.Done()
			if _, err := m.Await(context.Background(), h, time.Second); err != nil {
				t.Errorf("Await failed: %v", err)
			}
		}(h)
	}
	wg.Wait()

	if got := atomic.LoadInt64(&executions); got != 1 {
		t.Errorf("executions = %d, want exactly 1", got)
	}
}

func TestManager_AwaitTimeoutLeavesTaskRunning(t *testing.T) {
	m := NewManager(Config{Workers: 1, TaskTimeout: time.Second})
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	work := func(ctx context.Context) (*readiness.Snapshot, error) {
		<-release
		return &readiness.Snapshot{TaskForceID: "CA-TF1"}, nil
	}

	h, err := m.SubmitOrJoin("slow", work)
	if err != nil {
		t.Fatalf("SubmitOrJoin failed: %v", err)
	}

	if _, err := m.Await(context.Background(), h, 20*time.Millisecond); !errors.Is(err, ErrAwaitTimeout) {
		t.Fatalf("Await error = %v, want ErrAwaitTimeout", err)
	}

	// The task must still complete for a patient waiter.
	close(release)
	if _, err := m.Await(context.Background(), h, time.Second); err != nil {
		t.Errorf("second Await failed: %v", err)
	}
}

func TestManager_TaskDeadlineFailsWithComputeTimeout(t *testing.T) {
	m := NewManager(Config{Workers: 1, TaskTimeout: 30 * time.Millisecond})
	defer m.Shutdown(context.Background())

	work := func(ctx context.Context) (*readiness.Snapshot, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return &readiness.Snapshot{}, nil
		}
	}

	h, err := m.SubmitOrJoin("stuck", work)
	if err != nil {
		t.Fatalf("SubmitOrJoin failed: %v", err)
	}

	_, err = m.Await(context.Background(), h, time.Second)
	if !errors.Is(err, ErrComputeTimeout) {
		t.Fatalf("Await error = %v, want ErrComputeTimeout", err)
	}

	metrics := m.Metrics()
	if metrics.TimedOut != 1 {
		t.Errorf("TimedOut = %d, want 1", metrics.TimedOut)
	}
	if metrics.Failed != 1 {
		t.Errorf("Failed = %d, want 1", metrics.Failed)
	}
}

func TestManager_CancelBeforeRun(t *testing.T) {
	m := NewManager(Config{Workers: 1})
	defer m.Shutdown(context.Background())

	// Occupy the single worker so the next task stays pending.
	block := make(chan struct{})
	busy, err := m.SubmitOrJoin("busy", func(ctx context.Context) (*readiness.Snapshot, error) {
		<-block
		return &readiness.Snapshot{}, nil
	})
	if err != nil {
		t.Fatalf("SubmitOrJoin busy failed: %v", err)
	}

	var ran int64
	h, err := m.SubmitOrJoin("doomed", func(ctx context.Context) (*readiness.Snapshot, error) {
		atomic.AddInt64(&ran, 1)
		return &readiness.Snapshot{}, nil
	})
	if err != nil {
		t.Fatalf("SubmitOrJoin doomed failed: %v", err)
	}

	m.Cancel(h)

	if _, err := m.Await(context.Background(), h, time.Second); !errors.Is(err, ErrTaskCancelled) {
		t.Errorf("Await error = %v, want ErrTaskCancelled", err)
	}

	close(block)
	if _, err := m.Await(context.Background(), busy, time.Second); err != nil {
		t.Fatalf("Await busy failed: %v", err)
	}

	// Give the worker a chance to dequeue (and skip) the cancelled task.
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt64(&ran) != 0 {
		t.Error("cancelled task must never run")
	}
	if m.Metrics().Cancelled != 1 {
		t.Errorf("Cancelled = %d, want 1", m.Metrics().Cancelled)
	}
}

func TestManager_CancelWithRemainingWaitersKeepsTask(t *testing.T) {
	m := NewManager(Config{Workers: 1})
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	work := func(ctx context.Context) (*readiness.Snapshot, error) {
		<-release
		return &readiness.Snapshot{TaskForceID: "CA-TF1"}, nil
	}

	h1, err := m.SubmitOrJoin("shared", work)
	if err != nil {
		t.Fatalf("SubmitOrJoin failed: %v", err)
	}
	h2, err := m.SubmitOrJoin("shared", work)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	m.Cancel(h1)
	close(release)

	if _, err := m.Await(context.Background(), h2, time.Second); err != nil {
		t.Errorf("remaining waiter must still get a result, got error: %v", err)
	}
}

func TestManager_SubmitAfterShutdown(t *testing.T) {
	m := NewManager(Config{Workers: 1})
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if _, err := m.SubmitOrJoin("late", snapshotWork("CA-TF1")); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("SubmitOrJoin error = %v, want ErrManagerClosed", err)
	}

	// Shutdown is idempotent.
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestManager_ShutdownDrainsQueuedTasks(t *testing.T) {
	m := NewManager(Config{Workers: 2})

	var completed int64
	for i := 0; i < 8; i++ {
		key := string(rune('a' + i))
		_, err := m.SubmitOrJoin(key, func(ctx context.Context) (*readiness.Snapshot, error) {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&completed, 1)
			return &readiness.Snapshot{}, nil
		})
		if err != nil {
			t.Fatalf("SubmitOrJoin failed: %v", err)
		}
	}

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if got := atomic.LoadInt64(&completed); got != 8 {
		t.Errorf("completed = %d, want 8 (queued work drains on shutdown)", got)
	}
}

func TestManager_QueueFull(t *testing.T) {
	m := NewManager(Config{Workers: 1, QueueDepth: 1})
	defer m.Shutdown(context.Background())

	block := make(chan struct{})
	defer close(block)

	// One running, one queued; the third submission must be rejected.
	if _, err := m.SubmitOrJoin("running", func(ctx context.Context) (*readiness.Snapshot, error) {
		<-block
		return &readiness.Snapshot{}, nil
	}); err != nil {
		t.Fatalf("SubmitOrJoin running failed: %v", err)
	}

	// Wait for the worker to dequeue the first task.
	deadline := time.Now().Add(time.Second)
	for m.Metrics().Active == 0 {
		if time.Now().After(deadline) {
			t.Fatal("worker never picked up first task")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := m.SubmitOrJoin("queued", snapshotWork("CA-TF1")); err != nil {
		t.Fatalf("SubmitOrJoin queued failed: %v", err)
	}
	if _, err := m.SubmitOrJoin("rejected", snapshotWork("CA-TF1")); !errors.Is(err, ErrQueueFull) {
		t.Errorf("SubmitOrJoin error = %v, want ErrQueueFull", err)
	}
}

func TestManager_ActiveTasks(t *testing.T) {
	m := NewManager(Config{Workers: 1})
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	h, err := m.SubmitOrJoin("visible", func(ctx context.Context) (*readiness.Snapshot, error) {
		<-release
		return &readiness.Snapshot{}, nil
	})
	if err != nil {
		t.Fatalf("SubmitOrJoin failed: %v", err)
	}

	keys := m.ActiveTasks()
	if len(keys) != 1 || keys[0] != "visible" {
		t.Errorf("ActiveTasks = %v, want [visible]", keys)
	}

	close(release)
	if _, err := m.Await(context.Background(), h, time.Second); err != nil {
		t.Fatalf("Await failed: %v", err)
	}

	if keys := m.ActiveTasks(); len(keys) != 0 {
		t.Errorf("ActiveTasks after completion = %v, want empty", keys)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StatePending, "pending"},
		{StateRunning, "running"},
		{StateCompleted, "completed"},
		{StateFailed, "failed"},
		{StateCancelled, "cancelled"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
