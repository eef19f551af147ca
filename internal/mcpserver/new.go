// Package mcpserver exposes stored sessions as Model Context Protocol tools.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/store"
	"github.com/nguyentantai21042004/scribe/internal/summarizer"
)

const (
	serverName    = "scribe"
	serverVersion = "1.0.0"
)

type handlers struct {
	store      store.Store
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// New builds an MCP server with the list_sessions, get_transcript and
// summarize_session tools.
func New(st store.Store, sum summarizer.Summarizer, log logger.Logger) *server.MCPServer {
	h := &handlers{store: st, summarizer: sum, logger: log}

	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List recorded sessions, newest first, with their state and chunk count."),
	), h.listSessions)

	s.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Return the ordered transcript of a session, and its summary if one exists."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), h.getTranscript)

	s.AddTool(mcp.NewTool("summarize_session",
		mcp.WithDescription("Generate (or regenerate) the summary of a session and mark it completed."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), h.summarizeSession)

	return s
}
