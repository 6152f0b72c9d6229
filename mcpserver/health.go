package mcpserver

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/usarops/health"
)

// ServiceHealthInput is the MCP input for the service health probe.
type ServiceHealthInput struct{}

// HealthCheckEntry is one probe outcome in a health result.
type HealthCheckEntry struct {
	Name       string  `json:"name" jsonschema:"checker name"`
	Status     string  `json:"status" jsonschema:"healthy, degraded, or unhealthy"`
	Message    string  `json:"message,omitempty" jsonschema:"probe detail"`
	DurationMs float64 `json:"duration_ms" jsonschema:"probe duration in milliseconds"`
	Error      string  `json:"error,omitempty" jsonschema:"probe error, if any"`
}

// ServiceHealthResult is the MCP output for the service health probe.
type ServiceHealthResult struct {
	Status    string             `json:"status" jsonschema:"worst status across all probes"`
	Checks    []HealthCheckEntry `json:"checks" jsonschema:"individual probe outcomes, sorted by name"`
	ElapsedMs float64            `json:"elapsed_ms" jsonschema:"total probe duration in milliseconds"`
}

// ServiceHealthTool defines the MCP tool schema for the health probe.
func ServiceHealthTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "service_health",
		Description: "Probes the readiness data sources and reports their liveness",
	}
}

// ServiceHealthHandler runs every registered health check.
func ServiceHealthHandler(checks *health.Aggregator) mcp.ToolHandlerFor[ServiceHealthInput, ServiceHealthResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ServiceHealthInput) (*mcp.CallToolResult, ServiceHealthResult, error) {
		report := checks.Check(ctx)

		result := ServiceHealthResult{
			Status:    report.Status.String(),
			ElapsedMs: float64(report.Elapsed.Milliseconds()),
		}
		for name, r := range report.Checks {
			entry := HealthCheckEntry{
				Name:       name,
				Status:     r.Status.String(),
				Message:    r.Message,
				DurationMs: float64(r.Duration.Milliseconds()),
			}
			if r.Error != nil {
				entry.Error = r.Error.Error()
			}
			result.Checks = append(result.Checks, entry)
		}
		sort.Slice(result.Checks, func(i, j int) bool { return result.Checks[i].Name < result.Checks[j].Name })

		return nil, result, nil
	}
}
