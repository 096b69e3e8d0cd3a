package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sadopc/timemanager/internal/logging"
	"github.com/sadopc/timemanager/internal/store"
)

const serverName = "timemanager"

// New builds an MCP server with every store tool registered.
func New(s *store.Store, grid store.Grid, version string, log *logging.Logger) *server.MCPServer {
	srv := server.NewMCPServer(
		serverName,
		version,
		server.WithLogging(),
	)
	for _, t := range Tools(s, grid, log) {
		srv.AddTool(t.Tool, t.Handler)
	}
	return srv
}

// ServeStdio runs srv on standard input/output until the client disconnects.
func ServeStdio(srv *server.MCPServer) error {
	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
