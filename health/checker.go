package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/usarops/readiness"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	Status    Status
	Message   string
	Duration  time.Duration
	CheckedAt time.Time
	Error     error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, CheckedAt: time.Now()}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, CheckedAt: time.Now()}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err, CheckedAt: time.Now()}
}

// Checker is the interface for health checks.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Check must honor cancellation/deadlines.
// - Errors: failures are reported through the Result, never panics.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// CheckFunc adapts an ordinary function to the Checker interface.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) Result
}

// Name returns the checker name.
func (c CheckFunc) Name() string { return c.CheckName }

// Check runs the function.
func (c CheckFunc) Check(ctx context.Context) Result { return c.Fn(ctx) }

// SourceChecker probes a readiness data source by summarizing a known
// task force.
type SourceChecker struct {
	name    string
	probeID string
	source  readiness.SourceFunc
}

// NewSourceChecker creates a checker that probes src with probeID.
func NewSourceChecker(name, probeID string, src interface {
	Summarize(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error)
}) *SourceChecker {
	c := &SourceChecker{name: name, probeID: probeID}
	if src != nil {
		c.source = src.Summarize
	}
	return c
}

// Name returns the checker name.
func (c *SourceChecker) Name() string { return c.name }

// Check probes the source once.
func (c *SourceChecker) Check(ctx context.Context) Result {
	start := time.Now()

	if c.source == nil {
		r := Unhealthy("source not configured", nil)
		r.Duration = time.Since(start)
		return r
	}

	summary, err := c.source(ctx, c.probeID)
	var result Result
	switch {
	case err != nil:
		result = Unhealthy("probe failed", err)
	case !summary.Available:
		result = Degraded("source reports itself unavailable")
	default:
		result = Healthy(fmt.Sprintf("completeness %.1f%%", summary.CompletenessPct))
	}
	result.Duration = time.Since(start)
	return result
}

var _ Checker = (*SourceChecker)(nil)
var _ Checker = CheckFunc{}
