package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

type sessionSummary struct {
	ID         string     `json:"id"`
	State      string     `json:"state"`
	CreatedAt  time.Time  `json:"created_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Chunks     int        `json:"chunks"`
	HasSummary bool       `json:"has_summary"`
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		h.logger.Error(ctx, "list_sessions: %v", err)
		return mcp.NewToolResultError("failed to list sessions"), nil
	}

	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary{
			ID:         s.ID,
			State:      string(s.State),
			CreatedAt:  s.CreatedAt.UTC(),
			EndedAt:    s.EndedAt,
			Chunks:     len(s.Chunks),
			HasSummary: s.Summary != nil,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sessions: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) getTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detail, err := h.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("session %q not found", sessionID)), nil
		}
		h.logger.Error(ctx, "get_transcript %s: %v", sessionID, err)
		return mcp.NewToolResultError("failed to load session"), nil
	}

	return mcp.NewToolResultText(formatTranscript(detail)), nil
}

func (h *handlers) summarizeSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := h.summarizer.Summarize(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrEmptyTranscript) {
			return mcp.NewToolResultError("No transcript available for this session."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("summarize failed: %v", err)), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func formatTranscript(d *models.SessionDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s (%s), started %s\n", d.ID, d.State, d.CreatedAt.UTC().Format(time.RFC3339))

	if d.Summary != nil {
		b.WriteString("\n## Summary\n")
		b.WriteString(d.Summary.Text)
		b.WriteString("\n")
	}

	b.WriteString("\n## Transcript\n")
	if len(d.Chunks) == 0 {
		b.WriteString("(empty)\n")
	}
	for _, c := range d.Chunks {
		fmt.Fprintf(&b, "[%d] %s\n", c.Ordinal, c.Text)
	}
	return b.String()
}
