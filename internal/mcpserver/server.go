// Package mcpserver exposes the PromptCraft flows as MCP tools, resources and
// prompts over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"promptcraft-studio/internal/common/logger"
	"promptcraft-studio/internal/flows"
	"promptcraft-studio/internal/library"
)

const serverName = "promptcraft-studio"

// New builds an MCP server with a tool per enabled flow, the content
// resources and the prompt scaffolding guide.
func New(set flows.Set, store library.Store, version string, log logger.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
	)

	t := &tools{
		flows:  set,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "mcp"}),
	}
	t.register(s)
	registerResources(s)
	registerPrompts(s)

	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
