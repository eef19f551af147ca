// Package ingest turns uploaded audio chunks into ordered transcript entries.
package ingest

import "context"

// Pipeline runs one chunk through transcode, transcribe, sequence, persist
// and broadcast.
type Pipeline interface {
	// Ingest processes audio as the next chunk of sessionID. filename is only
	// used as a container hint for the decoder.
	Ingest(ctx context.Context, sessionID string, audio []byte, filename string) (Result, error)
}

// Result describes a persisted chunk.
type Result struct {
	SessionID string
	Ordinal   int
	Text      string
}
