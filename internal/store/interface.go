// Package store persists sessions, ordered transcript chunks and summaries.
package store

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

// Store is the durable record of sessions. Implementations must be safe for
// concurrent use.
type Store interface {
	// EnsureSession creates the session in the recording state if it does not
	// exist. An existing session is left untouched unless it is in the error
	// state, in which case it returns to recording.
	EnsureSession(ctx context.Context, sessionID string) error
	// MarkSessionError flags an existing session as failed. Unknown ids and
	// completed sessions are left unchanged.
	MarkSessionError(ctx context.Context, sessionID string) error
	// CompleteSession sets ended_at and the completed state.
	CompleteSession(ctx context.Context, sessionID string, endedAt time.Time) error
	GetSession(ctx context.Context, sessionID string) (*models.SessionDetail, error)
	// ListSessions returns every session, newest first, chunks in ordinal order.
	ListSessions(ctx context.Context) ([]models.SessionDetail, error)

	InsertChunk(ctx context.Context, chunk models.TranscriptChunk) error
	ListChunks(ctx context.Context, sessionID string) ([]models.TranscriptChunk, error)
	// MaxOrdinal returns the highest persisted ordinal, or -1 when there is none.
	MaxOrdinal(ctx context.Context, sessionID string) (int, error)

	// UpsertSummary inserts the summary or replaces the existing one.
	UpsertSummary(ctx context.Context, summary models.Summary) error
	// GetSummary returns nil when the session has no summary.
	GetSummary(ctx context.Context, sessionID string) (*models.Summary, error)

	Close() error
}
