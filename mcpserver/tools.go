package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/usarops/core"
	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/tools"
)

// GetReadinessInput is the MCP input for a readiness assessment.
// The include flags default to true when omitted.
type GetReadinessInput struct {
	TaskForceID      string `json:"task_force_id" jsonschema:"task force identifier, e.g. CA-TF1"`
	IncludePersonnel *bool  `json:"include_personnel,omitempty" jsonschema:"include personnel accountability (default true)"`
	IncludeEquipment *bool  `json:"include_equipment,omitempty" jsonschema:"include equipment accountability (default true)"`
	IncludeMissions  *bool  `json:"include_missions,omitempty" jsonschema:"include mission assignment status (default true)"`
	RequireFresh     bool   `json:"require_fresh,omitempty" jsonschema:"block on recomputation instead of accepting a stale snapshot"`
}

// BottleneckEntry is one readiness bottleneck in a result.
type BottleneckEntry struct {
	Subsystem   string `json:"subsystem" jsonschema:"subsystem the bottleneck belongs to"`
	Description string `json:"description" jsonschema:"what is limiting readiness"`
	Severity    int    `json:"severity" jsonschema:"ordinal severity, higher is worse"`
}

// GetReadinessResult is the MCP output for a readiness assessment.
type GetReadinessResult struct {
	TaskForceID              string            `json:"task_force_id" jsonschema:"task force identifier"`
	CompositeScore           *float64          `json:"composite_score" jsonschema:"weighted readiness score 0-100, null when unknown"`
	Status                   string            `json:"status" jsonschema:"READY, DEGRADED, NOT_READY, or UNKNOWN"`
	EstimatedDeploymentHours *float64          `json:"estimated_deployment_hours" jsonschema:"estimated hours to deployment, null when unknown"`
	Bottlenecks              []BottleneckEntry `json:"bottlenecks,omitempty" jsonschema:"limiting factors, most significant first"`
	Version                  uint64            `json:"version" jsonschema:"monotonic snapshot version per task force"`
	ComputedAt               string            `json:"computed_at" jsonschema:"RFC 3339 computation time"`
	Stale                    bool              `json:"stale" jsonschema:"true when served past its freshness window"`
	Annotation               string            `json:"annotation,omitempty" jsonschema:"explanation when the status is UNKNOWN"`
}

// GetReadinessTool defines the MCP tool schema for readiness queries.
func GetReadinessTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_readiness",
		Description: "Computes the composite operational readiness of a task force from personnel, equipment, and mission accountability",
	}
}

// GetReadinessHandler executes a readiness query.
func GetReadinessHandler(c *core.Core) mcp.ToolHandlerFor[GetReadinessInput, GetReadinessResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetReadinessInput) (*mcp.CallToolResult, GetReadinessResult, error) {
		snap, err := c.GetReadiness(ctx, core.Request{
			TaskForceID: input.TaskForceID,
			Options: readiness.Options{
				IncludePersonnel: boolOrTrue(input.IncludePersonnel),
				IncludeEquipment: boolOrTrue(input.IncludeEquipment),
				IncludeMissions:  boolOrTrue(input.IncludeMissions),
			},
			RequireFresh: input.RequireFresh,
		})
		if err != nil {
			return nil, GetReadinessResult{}, err
		}
		return nil, snapshotResult(snap), nil
	}
}

// InvalidateInput is the MCP input for a cache invalidation.
type InvalidateInput struct {
	TaskForceID string `json:"task_force_id" jsonschema:"task force identifier, e.g. CA-TF1"`
}

// InvalidateResult is the MCP output for a cache invalidation.
type InvalidateResult struct {
	TaskForceID string `json:"task_force_id" jsonschema:"task force identifier"`
	Removed     int    `json:"removed" jsonschema:"number of cached snapshots removed"`
}

// InvalidateTool defines the MCP tool schema for cache invalidation.
func InvalidateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "invalidate_readiness",
		Description: "Drops every cached readiness snapshot for a task force so the next query recomputes",
	}
}

// InvalidateHandler executes a cache invalidation.
func InvalidateHandler(c *core.Core) mcp.ToolHandlerFor[InvalidateInput, InvalidateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InvalidateInput) (*mcp.CallToolResult, InvalidateResult, error) {
		removed, err := c.Invalidate(ctx, input.TaskForceID)
		if err != nil {
			return nil, InvalidateResult{}, err
		}
		return nil, InvalidateResult{TaskForceID: input.TaskForceID, Removed: removed}, nil
	}
}

// RosterInput is the MCP input for the personnel roster.
type RosterInput struct {
	Group string `json:"group,omitempty" jsonschema:"optional functional group filter (COMMAND, SEARCH, RESCUE, MEDICAL, PLANNING, LOGISTICS, TECHNICAL)"`
}

// RosterTool defines the MCP tool schema for the personnel roster.
func RosterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "personnel_roster",
		Description: "Lists the task force functional groups with position titles and accountability counts",
	}
}

// RosterHandler returns the personnel roster.
func RosterHandler(catalog *tools.Catalog) mcp.ToolHandlerFor[RosterInput, tools.RosterReport] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RosterInput) (*mcp.CallToolResult, tools.RosterReport, error) {
		report, err := catalog.Roster(input.Group)
		if err != nil {
			return nil, tools.RosterReport{}, err
		}
		return nil, report, nil
	}
}

// EquipmentInput is the MCP input for the equipment catalogue.
type EquipmentInput struct {
	Category string `json:"category,omitempty" jsonschema:"optional category filter (search, rescue, medical, communications, logistics)"`
}

// EquipmentTool defines the MCP tool schema for the equipment catalogue.
func EquipmentTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "equipment_catalog",
		Description: "Lists the equipment cache categories with operational counts",
	}
}

// EquipmentHandler returns the equipment catalogue.
func EquipmentHandler(catalog *tools.Catalog) mcp.ToolHandlerFor[EquipmentInput, tools.EquipmentReport] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EquipmentInput) (*mcp.CallToolResult, tools.EquipmentReport, error) {
		report, err := catalog.Equipment(input.Category)
		if err != nil {
			return nil, tools.EquipmentReport{}, err
		}
		return nil, report, nil
	}
}

// MissionBoardInput is the MCP input for the mission board.
type MissionBoardInput struct {
	TaskForceID string `json:"task_force_id" jsonschema:"task force identifier, e.g. CA-TF1"`
	Status      string `json:"status,omitempty" jsonschema:"optional status filter (assigned, active, completed, cancelled)"`
}

// MissionBoardResult is the MCP output for the mission board.
type MissionBoardResult struct {
	TaskForceID string          `json:"task_force_id" jsonschema:"task force identifier"`
	Missions    []tools.Mission `json:"missions" jsonschema:"mission assignments on the board"`
}

// MissionBoardTool defines the MCP tool schema for the mission board.
func MissionBoardTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "mission_board",
		Description: "Lists the mission assignments of a task force, optionally filtered by status",
	}
}

// MissionBoardHandler returns the mission board.
func MissionBoardHandler(catalog *tools.Catalog) mcp.ToolHandlerFor[MissionBoardInput, MissionBoardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MissionBoardInput) (*mcp.CallToolResult, MissionBoardResult, error) {
		board, err := catalog.Missions(input.TaskForceID, input.Status)
		if err != nil {
			return nil, MissionBoardResult{}, err
		}
		return nil, MissionBoardResult{TaskForceID: input.TaskForceID, Missions: board}, nil
	}
}

// FormsInput is the MCP input for the ICS form catalogue.
type FormsInput struct{}

// FormsResult is the MCP output for the ICS form catalogue.
type FormsResult struct {
	Forms []tools.ICSForm `json:"forms" jsonschema:"ICS forms the planning section produces"`
}

// FormsTool defines the MCP tool schema for the ICS form catalogue.
func FormsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ics_forms",
		Description: "Lists the ICS forms supported by the planning section",
	}
}

// FormsHandler returns the ICS form catalogue.
func FormsHandler(catalog *tools.Catalog) mcp.ToolHandlerFor[FormsInput, FormsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ FormsInput) (*mcp.CallToolResult, FormsResult, error) {
		return nil, FormsResult{Forms: catalog.Forms()}, nil
	}
}

// CapabilitiesInput is the MCP input for the capability summary.
type CapabilitiesInput struct{}

// CapabilitiesTool defines the MCP tool schema for the capability summary.
func CapabilitiesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "task_force_capabilities",
		Description: "Summarizes what a Type 1 USAR task force brings to an incident",
	}
}

// CapabilitiesHandler returns the capability summary.
func CapabilitiesHandler(catalog *tools.Catalog) mcp.ToolHandlerFor[CapabilitiesInput, tools.Capabilities] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CapabilitiesInput) (*mcp.CallToolResult, tools.Capabilities, error) {
		return nil, catalog.Capabilities(), nil
	}
}

// SystemStatusInput is the MCP input for the system status report.
type SystemStatusInput struct{}

// SystemStatusTool defines the MCP tool schema for the system status
// report.
func SystemStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "system_status",
		Description: "Reports cache and task manager counters of the readiness service",
	}
}

// SystemStatusHandler returns current service counters.
func SystemStatusHandler(c *core.Core) mcp.ToolHandlerFor[SystemStatusInput, core.Stats] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SystemStatusInput) (*mcp.CallToolResult, core.Stats, error) {
		return nil, c.Stats(), nil
	}
}

func snapshotResult(snap *readiness.Snapshot) GetReadinessResult {
	result := GetReadinessResult{
		TaskForceID:              snap.TaskForceID,
		CompositeScore:           snap.CompositeScore,
		Status:                   snap.Status.String(),
		EstimatedDeploymentHours: snap.EstimatedDeploymentHours,
		Version:                  snap.Version,
		ComputedAt:               snap.ComputedAt.UTC().Format(time.RFC3339Nano),
		Stale:                    snap.Stale,
		Annotation:               snap.Annotation,
	}
	for _, b := range snap.Bottlenecks {
		result.Bottlenecks = append(result.Bottlenecks, BottleneckEntry{
			Subsystem:   b.Subsystem.String(),
			Description: b.Description,
			Severity:    b.Severity,
		})
	}
	return result
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
