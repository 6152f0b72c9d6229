package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/usarops/core"
	"github.com/jonwraymond/usarops/health"
	"github.com/jonwraymond/usarops/observe"
	"github.com/jonwraymond/usarops/tools"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "USAR Operational Readiness MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the readiness service over MCP.
type Server struct {
	mcpServer *mcp.Server
	core      *core.Core
	logger    observe.Logger
}

// New creates a configured MCP server over the given core, catalogue,
// and health aggregator.
func New(c *core.Core, catalog *tools.Catalog, checks *health.Aggregator, logger observe.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, GetReadinessTool(), GetReadinessHandler(c))
	mcp.AddTool(mcpServer, InvalidateTool(), InvalidateHandler(c))
	mcp.AddTool(mcpServer, RosterTool(), RosterHandler(catalog))
	mcp.AddTool(mcpServer, EquipmentTool(), EquipmentHandler(catalog))
	mcp.AddTool(mcpServer, MissionBoardTool(), MissionBoardHandler(catalog))
	mcp.AddTool(mcpServer, FormsTool(), FormsHandler(catalog))
	mcp.AddTool(mcpServer, CapabilitiesTool(), CapabilitiesHandler(catalog))
	mcp.AddTool(mcpServer, SystemStatusTool(), SystemStatusHandler(c))
	mcp.AddTool(mcpServer, ServiceHealthTool(), ServiceHealthHandler(checks))

	return &Server{
		mcpServer: mcpServer,
		core:      c,
		logger:    logger.WithComponent("mcpserver"),
	}
}

// Run serves MCP over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "mcp server started",
		observe.Field{Key: "name", Value: serverName},
		observe.Field{Key: "version", Value: serverVersion},
	)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
