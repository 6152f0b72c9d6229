package task

import "errors"

// Sentinel errors for task operations.
var (
	// ErrManagerClosed is returned when submitting to a shut-down manager.
	ErrManagerClosed = errors.New("task: manager is closed")

	// ErrAwaitTimeout is returned when a waiter's timeout elapses before
	// the task reaches a terminal state. The task itself keeps running.
	ErrAwaitTimeout = errors.New("task: await timed out")

	// ErrComputeTimeout is recorded on a task whose execution exceeded its
	// deadline. Never retried automatically; retry is the caller's call.
	ErrComputeTimeout = errors.New("task: compute deadline exceeded")

	// ErrTaskCancelled is returned to waiters of a cancelled task.
	ErrTaskCancelled = errors.New("task: task cancelled")

	// ErrQueueFull is returned when the pending queue is at capacity.
	// Callers may compute inline instead of queueing.
	ErrQueueFull = errors.New("task: queue at capacity")
)
