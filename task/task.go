package task

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/usarops/readiness"
)

// State is the lifecycle state of a task.
// Transitions: PENDING -> RUNNING -> {COMPLETED, FAILED}; PENDING -> CANCELLED.
type State int

const (
	// StatePending means the task is queued but not yet picked up.
	StatePending State = iota
	// StateRunning means a worker is executing the task.
	StateRunning
	// StateCompleted means the task finished and stored a snapshot.
	StateCompleted
	// StateFailed means the task finished with an error classification.
	StateFailed
	// StateCancelled means the task was abandoned before running.
	StateCancelled
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is terminal.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Work is a readiness computation executed by a worker. The context
// carries the task's execution deadline.
type Work func(ctx context.Context) (*readiness.Snapshot, error)

// Task is a single keyed computation tracked by the Manager. Exactly one
// non-terminal task exists per key at any time.
type Task struct {
	id   string
	key  string
	work Work

	mu        sync.Mutex
	state     State
	result    *readiness.Snapshot
	err       error
	waiters   int
	startedAt time.Time
	deadline  time.Time

	// done is closed when the task reaches a terminal state.
	done chan struct{}
}

// ID returns the unique task id.
func (t *Task) ID() string { return t.id }

// Key returns the fingerprint the task was submitted under.
func (t *Task) Key() string { return t.key }

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Waiters returns the number of callers blocked on this task.
func (t *Task) Waiters() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.waiters
}

// outcome returns the terminal result and error. Call only after done is
// closed.
func (t *Task) outcome() (*readiness.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateCancelled {
		return nil, ErrTaskCancelled
	}
	return t.result, t.err
}

// Handle is a caller's reference to a submitted or joined task.
type Handle struct {
	task *Task
}

// TaskID returns the id of the underlying task.
func (h *Handle) TaskID() string { return h.task.id }

// State returns the current state of the underlying task.
func (h *Handle) State() State { return h.task.State() }

// Key returns the fingerprint of the underlying task.
func (h *Handle) Key() string { return h.task.key }

// SameTask reports whether both handles refer to the same underlying
// task. Every caller holds its own Handle; joined callers share a task.
func (h *Handle) SameTask(other *Handle) bool {
	return h != nil && other != nil && h.task == other.task
}
