package summarizer

import (
	"context"
	"io"
)

// Summarizer turns a session's ordered transcript into its single summary
// and renders sessions as documents.
type Summarizer interface {
	// Summarize generates, stores and announces the summary of sessionID. A
	// session without chunks yields a models.ErrEmptyTranscript error.
	Summarize(ctx context.Context, sessionID string) (string, error)
	// Export writes the session's transcript and summary to w as a .docx file.
	Export(ctx context.Context, sessionID string, w io.Writer) error
}
