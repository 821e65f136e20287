// Package mcp exposes the message router to desktop AI agents over the
// Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/router"
	"github.com/ysalloum/pulsedesk/internal/specialist"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the routing tools.
type Server struct {
	router    *router.Router
	memory    *memory.Store
	directory *specialist.Directory
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(rt *router.Router, mem *memory.Store, dir *specialist.Directory) *Server {
	s := &Server{
		router:    rt,
		memory:    mem,
		directory: dir,
	}

	s.mcp = server.NewMCPServer(
		"pulsedesk",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(routeMessageTool, s.handleRouteMessage)
	s.mcp.AddTool(customerHistoryTool, s.handleCustomerHistory)
	s.mcp.AddTool(listSpecialistsTool, s.handleListSpecialists)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
