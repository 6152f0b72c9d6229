package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records readiness service metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records a completed readiness request with its final
	// status (READY, DEGRADED, NOT_READY, UNKNOWN), whether the snapshot
	// served was stale, and the end-to-end duration.
	RecordRequest(ctx context.Context, status string, stale bool, duration time.Duration)

	// RecordTask records a finished background computation task with its
	// terminal state (completed, failed, cancelled) and execution duration.
	RecordTask(ctx context.Context, state string, duration time.Duration)

	// RecordInvalidation records an explicit cache invalidation and how
	// many entries it removed.
	RecordInvalidation(ctx context.Context, removed int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	requestCount  metric.Int64Counter
	requestHist   metric.Float64Histogram
	taskCount     metric.Int64Counter
	taskHist      metric.Float64Histogram
	invalidations metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	requestCount, err := meter.Int64Counter(
		"readiness.requests.total",
		metric.WithDescription("Total number of readiness requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestHist, err := meter.Float64Histogram(
		"readiness.request.duration_ms",
		metric.WithDescription("Readiness request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	taskCount, err := meter.Int64Counter(
		"readiness.tasks.total",
		metric.WithDescription("Total number of finished computation tasks"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	taskHist, err := meter.Float64Histogram(
		"readiness.task.duration_ms",
		metric.WithDescription("Computation task execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"readiness.cache.invalidated_entries",
		metric.WithDescription("Cache entries removed by explicit invalidation"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		requestCount:  requestCount,
		requestHist:   requestHist,
		taskCount:     taskCount,
		taskHist:      taskHist,
		invalidations: invalidations,
	}, nil
}

func (m *metricsImpl) RecordRequest(ctx context.Context, status string, stale bool, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("status", status),
		attribute.Bool("stale", stale),
	)
	m.requestCount.Add(ctx, 1, opt)
	m.requestHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordTask(ctx context.Context, state string, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("state", state))
	m.taskCount.Add(ctx, 1, opt)
	m.taskHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordInvalidation(ctx context.Context, removed int) {
	m.invalidations.Add(ctx, int64(removed))
}

// NoopMetrics returns a Metrics implementation that discards everything.
func NoopMetrics() Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (m *noopMetrics) RecordRequest(ctx context.Context, status string, stale bool, duration time.Duration) {
}
func (m *noopMetrics) RecordTask(ctx context.Context, state string, duration time.Duration) {}
func (m *noopMetrics) RecordInvalidation(ctx context.Context, removed int)                  {}
