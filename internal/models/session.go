// Package models holds the session transcript domain types shared by the
// store, the pipeline and the transports.
package models

import "time"

// SessionState is the lifecycle state of a recording session.
type SessionState string

const (
	StateRecording SessionState = "recording"
	StateCompleted SessionState = "completed"
	StateError     SessionState = "error"
)

// Session is one logical recording identified by a client-supplied id.
type Session struct {
	ID        string
	CreatedAt time.Time
	EndedAt   *time.Time
	State     SessionState
}

// TranscriptChunk is the transcribed text of one audio segment.
// Ordinals are contiguous from 0 within a session.
type TranscriptChunk struct {
	SessionID string
	Ordinal   int
	Text      string
	CreatedAt time.Time
}

// Summary is the single aggregate summary of a session.
type Summary struct {
	SessionID string
	Text      string
	Model     string
	UpdatedAt time.Time
}

// SessionDetail is a session with its history, as listed to clients.
type SessionDetail struct {
	Session
	Summary *Summary
	Chunks  []TranscriptChunk
}
