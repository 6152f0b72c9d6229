package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/task"
)

// Config configures the readiness cache.
type Config struct {
	// Capacity is the maximum number of cached fingerprints.
	// Default: 1024
	Capacity int

	// TTL is the freshness window for a stored snapshot.
	// Default: 60 seconds
	TTL time.Duration

	// AwaitTimeout caps how long a blocking caller waits for a shared
	// in-flight computation. Distinct from the task's own deadline; a
	// caller timing out leaves the task running for other waiters.
	// Default: 2 seconds
	AwaitTimeout time.Duration
}

// Compute produces a fresh snapshot for a fingerprint. It runs inside a
// worker with the task's deadline on ctx.
type Compute func(ctx context.Context) (*readiness.Snapshot, error)

// Stats contains cache counters.
type Stats struct {
	Size          int
	Capacity      int
	Hits          int64
	Misses        int64
	StaleServes   int64
	Evictions     int64
	Invalidations int64
	Uncached      int64
}

// Cache coalesces concurrent readiness requests per fingerprint and
// bounds result staleness.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: snapshots stored in the cache are immutable; callers
//   receive copies whose Stale flag reflects serving conditions.
// - Errors: recoverable conditions degrade to compute-through; errors
//   are only returned when no snapshot can be produced at all.
type Cache struct {
	config  Config
	manager *task.Manager

	mu       sync.Mutex
	store    *lruStore
	versions map[string]uint64

	hits          int64
	misses        int64
	staleServes   int64
	invalidations int64
	uncached      int64
}

// New creates a cache backed by the given task manager.
func New(manager *task.Manager, config ...Config) *Cache {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	if cfg.AwaitTimeout <= 0 {
		cfg.AwaitTimeout = 2 * time.Second
	}

	return &Cache{
		config:   cfg,
		manager:  manager,
		store:    newLRUStore(cfg.Capacity),
		versions: make(map[string]uint64),
	}
}

// GetOrCompute returns a snapshot for the task force and options.
//
// A fresh cached snapshot is returned immediately. An expired one is
// returned immediately with Stale set while a background refresh is
// submitted (serve-stale-while-revalidate), unless requireFresh is set,
// in which case the caller blocks on the refresh. On a miss the caller
// blocks on a submitted-or-joined computation; N concurrent callers for
// one fingerprint share exactly one underlying computation.
func (c *Cache) GetOrCompute(ctx context.Context, taskForceID string, opts readiness.Options, requireFresh bool, compute Compute) (*readiness.Snapshot, error) {
	key := Fingerprint(taskForceID, opts)
	now := time.Now()

	c.mu.Lock()

	e, ok := c.store.get(key)
	if ok && e.fresh(now) {
		c.hits++
		snap := *e.snapshot
		c.mu.Unlock()
		return &snap, nil
	}

	if ok && e.snapshot != nil && !requireFresh {
		// Expired: serve stale immediately, refresh in the background.
		if e.inflight == nil {
			if h, err := c.manager.SubmitOrJoin(key, c.finalize(key, taskForceID, compute)); err == nil {
				e.inflight = h
			}
			// Submit failures (queue full, shutdown) leave the stale
			// snapshot as the best available answer.
		}
		c.staleServes++
		snap := *e.snapshot
		snap.Stale = true
		c.mu.Unlock()
		return &snap, nil
	}

	// Miss, or expired with freshness required: block on the flight.
	// Always go through SubmitOrJoin, even when the entry already holds
	// an in-flight handle: joining credits this caller with its own
	// waiter slot, so one caller giving up never cancels the task out
	// from under the others.
	c.misses++

	h, err := c.manager.SubmitOrJoin(key, c.finalize(key, taskForceID, compute))
	if err != nil {
		// Compute through on the caller's goroutine; result is
		// versioned but not cached.
		c.uncached++
		c.mu.Unlock()
		return c.computeThrough(ctx, taskForceID, compute)
	}
	if !ok {
		e = &entry{key: key, taskForceID: taskForceID, inflight: h}
		if addErr := c.store.add(e); addErr != nil {
			// Every slot is pinned; proceed without an entry. The
			// flight itself still runs and may cache on completion.
			c.uncached++
		}
	} else {
		e.inflight = h
	}

	c.mu.Unlock()

	snap, err := c.manager.Await(ctx, h, c.config.AwaitTimeout)
	if err != nil {
		// Release this caller's waiter slot. The task itself keeps
		// running (and may still populate the cache) for anyone else;
		// a flight that ended without running must unpin its entry.
		c.manager.Cancel(h)
		c.mu.Lock()
		if e, ok := c.store.get(key); ok && e.inflight.SameTask(h) && h.State().Terminal() {
			e.inflight = nil
		}
		c.mu.Unlock()
		return nil, err
	}
	return snap, nil
}

// Invalidate removes every cached entry for a task force regardless of
// expiry. Used when an upstream system signals a material change.
// Version counters are preserved so monotonicity holds across
// invalidations.
func (c *Cache) Invalidate(taskForceID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.store.removeTaskForce(taskForceID)
	c.invalidations += int64(removed)
	return removed
}

// Stats returns current cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:          c.store.len(),
		Capacity:      c.config.Capacity,
		Hits:          c.hits,
		Misses:        c.misses,
		StaleServes:   c.staleServes,
		Evictions:     c.store.evictions,
		Invalidations: c.invalidations,
		Uncached:      c.uncached,
	}
}

// finalize wraps a compute so that a successful result is versioned and
// written back into the store before waiters are released, and the
// entry's in-flight marker is always cleared.
func (c *Cache) finalize(key, taskForceID string, compute Compute) task.Work {
	return func(ctx context.Context) (*readiness.Snapshot, error) {
		snap, err := compute(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()

		if e, ok := c.store.get(key); ok {
			e.inflight = nil
		}
		if err != nil {
			return nil, err
		}

		snap.Version = c.nextVersionLocked(taskForceID)

		e, ok := c.store.get(key)
		if !ok {
			e = &entry{key: key, taskForceID: taskForceID}
			if addErr := c.store.add(e); addErr != nil {
				// Cannot cache right now; still hand the snapshot to
				// every waiter.
				c.uncached++
				return snap, nil
			}
		}
		e.snapshot = snap
		e.expiresAt = time.Now().Add(c.config.TTL)
		return snap, nil
	}
}

// computeThrough runs the computation inline when the task manager
// cannot accept work. The snapshot is versioned but never cached.
func (c *Cache) computeThrough(ctx context.Context, taskForceID string, compute Compute) (*readiness.Snapshot, error) {
	snap, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	snap.Version = c.nextVersionLocked(taskForceID)
	c.mu.Unlock()
	return snap, nil
}

// nextVersionLocked returns the next monotonic version for a task force.
// Caller must hold c.mu.
func (c *Cache) nextVersionLocked(taskForceID string) uint64 {
	c.versions[taskForceID]++
	return c.versions[taskForceID]
}
