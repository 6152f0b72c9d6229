package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/usarops/readiness"
)

// Config configures the task manager.
type Config struct {
	// Workers is the worker pool size.
	// Default: 10
	Workers int

	// QueueDepth is the pending-task queue capacity.
	// Default: 256
	QueueDepth int

	// TaskTimeout is the per-task execution deadline, applied when a
	// worker picks the task up.
	// Default: 5 seconds
	TaskTimeout time.Duration
}

// Manager executes keyed tasks on a bounded worker pool.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: the Manager exclusively owns every Task it creates.
// - Errors: Await never panics; a waiter timeout leaves the task running.
type Manager struct {
	config Config

	mu     sync.Mutex
	tasks  map[string]*Task
	closed bool

	queue chan *Task
	wg    sync.WaitGroup

	// counters, guarded by mu
	completed int64
	failed    int64
	cancelled int64
	timedOut  int64
	active    int
	maxActive int
}

// ManagerMetrics contains task manager statistics.
type ManagerMetrics struct {
	Active    int
	MaxActive int
	Pending   int
	Completed int64
	Failed    int64
	Cancelled int64
	TimedOut  int64
}

// NewManager creates a task manager and starts its worker pool.
func NewManager(config ...Config) *Manager {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 256
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 5 * time.Second
	}

	m := &Manager{
		config: cfg,
		tasks:  make(map[string]*Task),
		queue:  make(chan *Task, cfg.QueueDepth),
	}

	m.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go m.worker()
	}

	return m
}

// SubmitOrJoin submits work under a key, or joins the task already
// pending or running for that key. Joining increments the waiter count;
// no duplicate computation is ever started for one key.
func (m *Manager) SubmitOrJoin(key string, work Work) (*Handle, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}

	if existing, ok := m.tasks[key]; ok {
		existing.mu.Lock()
		if !existing.state.Terminal() {
			existing.waiters++
			existing.mu.Unlock()
			m.mu.Unlock()
			return &Handle{task: existing}, nil
		}
		existing.mu.Unlock()
		// Terminal task not yet reaped; replace it.
	}

	t := &Task{
		id:      uuid.NewString(),
		key:     key,
		work:    work,
		state:   StatePending,
		waiters: 1,
		done:    make(chan struct{}),
	}
	select {
	case m.queue <- t:
	default:
		m.mu.Unlock()
		return nil, ErrQueueFull
	}
	m.tasks[key] = t
	m.mu.Unlock()

	return &Handle{task: t}, nil
}

// Await blocks until the task reaches a terminal state, the timeout
// elapses, or ctx is cancelled. On timeout the caller gets
// ErrAwaitTimeout while the task keeps running for other waiters.
func (m *Manager) Await(ctx context.Context, h *Handle, timeout time.Duration) (*readiness.Snapshot, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.task.done:
		return h.task.outcome()
	case <-timer.C:
		return nil, ErrAwaitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel releases the caller's interest in the task. When the waiter
// count reaches zero before a worker picks the task up, the task is
// cancelled and never runs. A task already running is allowed to finish;
// there is no preemption.
func (m *Manager) Cancel(h *Handle) {
	t := h.task

	t.mu.Lock()
	if t.waiters > 0 {
		t.waiters--
	}
	abandon := t.waiters == 0 && t.state == StatePending
	if abandon {
		t.state = StateCancelled
		close(t.done)
	}
	t.mu.Unlock()

	if abandon {
		m.mu.Lock()
		if m.tasks[t.key] == t {
			delete(m.tasks, t.key)
		}
		m.cancelled++
		m.mu.Unlock()
	}
}

// ActiveTasks returns the keys of all non-terminal tasks.
func (m *Manager) ActiveTasks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.tasks))
	for key := range m.tasks {
		keys = append(keys, key)
	}
	return keys
}

// Metrics returns current task manager statistics.
func (m *Manager) Metrics() ManagerMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	return ManagerMetrics{
		Active:    m.active,
		MaxActive: m.maxActive,
		Pending:   len(m.queue),
		Completed: m.completed,
		Failed:    m.failed,
		Cancelled: m.cancelled,
		TimedOut:  m.timedOut,
	}
}

// Shutdown stops accepting new tasks and drains the workers. Queued and
// running tasks are allowed to finish. Returns ctx.Err() if the drain
// outlives the context.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	close(m.queue)

	drained := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for t := range m.queue {
		m.run(t)
	}
}

// run executes one task to a terminal state and reaps it from the
// registry. Cancelled tasks still in the queue are skipped.
func (m *Manager) run(t *Task) {
	t.mu.Lock()
	if t.state != StatePending {
		t.mu.Unlock()
		return
	}
	t.state = StateRunning
	t.startedAt = time.Now()
	t.deadline = t.startedAt.Add(m.config.TaskTimeout)
	deadline := t.deadline
	t.mu.Unlock()

	m.mu.Lock()
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	m.mu.Unlock()

	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	result, err := t.work(ctx)
	cancel()

	timedOut := false
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = ErrComputeTimeout
		timedOut = true
	}

	t.mu.Lock()
	if err != nil {
		t.state = StateFailed
		t.err = err
	} else {
		t.state = StateCompleted
		t.result = result
	}
	close(t.done)
	t.mu.Unlock()

	m.mu.Lock()
	m.active--
	if err != nil {
		m.failed++
		if timedOut {
			m.timedOut++
		}
	} else {
		m.completed++
	}
	if m.tasks[t.key] == t {
		delete(m.tasks, t.key)
	}
	m.mu.Unlock()
}
