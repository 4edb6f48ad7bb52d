package mcp

import (
	"context"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	assetsvc "github.com/alanyang/engn/internal/service/asset"
	audiosvc "github.com/alanyang/engn/internal/service/audio"
	"github.com/alanyang/engn/internal/service/scheduler"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// Tools are registered in tools.go; this file only owns the server lifecycle.
type Server struct {
	mcpSrv  *mcpserver.MCPServer
	httpSrv *mcpserver.StreamableHTTPServer
}

// New creates the MCP transport server exposing loop, asset and audio control.
func New(sched *scheduler.Scheduler, lib *assetsvc.Library, mixer *audiosvc.Mixer) *Server {
	hooks := &mcpserver.Hooks{}
	hooks.OnRegisterSession = append(hooks.OnRegisterSession, func(ctx context.Context, session mcpserver.ClientSession) {
		slog.InfoContext(ctx, "mcp: session opened", "session_id", session.SessionID())
	})
	hooks.OnUnregisterSession = append(hooks.OnUnregisterSession, func(ctx context.Context, session mcpserver.ClientSession) {
		slog.InfoContext(ctx, "mcp: session closed", "session_id", session.SessionID())
	})

	mcpSrv := mcpserver.NewMCPServer(
		"engn",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithHooks(hooks),
	)

	RegisterTools(mcpSrv, sched, lib, mixer)

	return &Server{
		mcpSrv:  mcpSrv,
		httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv),
	}
}

// Handler returns an http.Handler that serves the streamable MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

// MCP returns the underlying server for in-process message handling.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcpSrv
}
