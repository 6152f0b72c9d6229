package core

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/usarops/cache"
	"github.com/jonwraymond/usarops/observe"
	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/task"
)

// Request is one readiness query.
type Request struct {
	TaskForceID string
	Options     readiness.Options

	// RequireFresh forces the caller to block on a recomputation when
	// the cached snapshot has expired, instead of receiving it stale.
	RequireFresh bool
}

// Stats combines the counters of the cache and the task manager.
type Stats struct {
	Cache cache.Stats         `json:"cache"`
	Tasks task.ManagerMetrics `json:"tasks"`
}

// Core serves composite readiness assessments for task forces.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: GetReadiness honors cancellation; Close honors its deadline.
// - Errors: GetReadiness returns ErrInvalidTaskForceID for malformed
//   identifiers and the caller's context error on cancellation; every
//   other failure is folded into the returned snapshot.
type Core struct {
	config     Config
	sources    readiness.Sources
	aggregator *readiness.Aggregator
	manager    *task.Manager
	cache      *cache.Cache

	tracer  trace.Tracer
	metrics observe.Metrics
	logger  observe.Logger
}

// New creates a Core over the given subsystem sources and starts its
// worker pool.
func New(sources readiness.Sources, config ...Config) (*Core, error) {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Observer == nil {
		cfg.Observer = observe.NewNoop()
	}

	metrics, err := observe.NewMetrics(cfg.Observer.Meter())
	if err != nil {
		return nil, err
	}

	manager := task.NewManager(cfg.Tasks)
	return &Core{
		config:     cfg,
		sources:    sources,
		aggregator: readiness.NewAggregator(cfg.Aggregation),
		manager:    manager,
		cache:      cache.New(manager, cfg.Cache),
		tracer:     cfg.Observer.Tracer(),
		metrics:    metrics,
		logger:     cfg.Observer.Logger().WithComponent("core"),
	}, nil
}

// GetReadiness returns a readiness snapshot for the requested task force.
//
// The snapshot may be served from cache, served stale while a background
// refresh runs, or computed on demand with concurrent callers sharing one
// computation. A timeout or computation failure yields an UNKNOWN
// snapshot whose Annotation explains what happened; only a malformed
// identifier or the caller's own context ending produces an error.
func (c *Core) GetReadiness(ctx context.Context, req Request) (*readiness.Snapshot, error) {
	if err := ValidateTaskForceID(req.TaskForceID); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "readiness.get",
		trace.WithAttributes(
			attribute.String("task_force_id", req.TaskForceID),
			attribute.Bool("require_fresh", req.RequireFresh),
		),
	)
	defer span.End()

	snap, err := c.cache.GetOrCompute(ctx, req.TaskForceID, req.Options, req.RequireFresh,
		c.compute(req.TaskForceID, req.Options))
	if err != nil {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, ctx.Err().Error())
			return nil, ctx.Err()
		}
		snap = readiness.UnknownSnapshot(req.TaskForceID, annotate(err))
		c.logger.Warn(ctx, "readiness degraded to unknown",
			observe.Field{Key: "task_force_id", Value: req.TaskForceID},
			observe.Field{Key: "reason", Value: err.Error()},
		)
	}

	span.SetAttributes(
		attribute.String("readiness.status", snap.Status.String()),
		attribute.Bool("readiness.stale", snap.Stale),
		attribute.Int64("readiness.version", int64(snap.Version)),
	)
	c.metrics.RecordRequest(ctx, snap.Status.String(), snap.Stale, time.Since(start))
	return snap, nil
}

// Invalidate removes every cached snapshot for a task force. The next
// request recomputes; version counters are preserved. Returns how many
// entries were removed.
func (c *Core) Invalidate(ctx context.Context, taskForceID string) (int, error) {
	if err := ValidateTaskForceID(taskForceID); err != nil {
		return 0, err
	}

	removed := c.cache.Invalidate(taskForceID)
	c.metrics.RecordInvalidation(ctx, removed)
	c.logger.Info(ctx, "cache invalidated",
		observe.Field{Key: "task_force_id", Value: taskForceID},
		observe.Field{Key: "removed", Value: removed},
	)
	return removed, nil
}

// Stats returns current cache and task manager counters.
func (c *Core) Stats() Stats {
	return Stats{
		Cache: c.cache.Stats(),
		Tasks: c.manager.Metrics(),
	}
}

// Close stops accepting work and drains in-flight computations. Returns
// ctx.Err() if the drain outlives the context.
func (c *Core) Close(ctx context.Context) error {
	return c.manager.Shutdown(ctx)
}

// compute builds the cache's compute callback: fetch the included
// subsystem summaries concurrently, then aggregate. Runs inside a worker
// under the task's execution deadline.
func (c *Core) compute(taskForceID string, opts readiness.Options) cache.Compute {
	return func(ctx context.Context) (*readiness.Snapshot, error) {
		start := time.Now()
		personnel, equipment, mission, err := c.fetchSummaries(ctx, taskForceID, opts)
		if err != nil {
			c.metrics.RecordTask(ctx, task.StateFailed.String(), time.Since(start))
			return nil, err
		}
		snap := c.aggregator.Aggregate(taskForceID, opts, personnel, equipment, mission)
		c.metrics.RecordTask(ctx, task.StateCompleted.String(), time.Since(start))
		return snap, nil
	}
}

// annotate maps a computation failure to a human-readable snapshot
// annotation.
func annotate(err error) string {
	switch {
	case errors.Is(err, task.ErrAwaitTimeout):
		return "timed out waiting for readiness computation"
	case errors.Is(err, task.ErrComputeTimeout):
		return "readiness computation exceeded its deadline"
	case errors.Is(err, task.ErrTaskCancelled):
		return "readiness computation was cancelled before it ran"
	default:
		return "readiness computation failed: " + err.Error()
	}
}
