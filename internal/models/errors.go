package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindTranscode       ErrorKind = "transcode"
	KindTranscription   ErrorKind = "transcription"
	KindSummarization   ErrorKind = "summarization"
	KindPersistence     ErrorKind = "persistence"
	KindEmptyTranscript ErrorKind = "empty_transcript"
	KindSequencer       ErrorKind = "sequencer"
	KindNotFound        ErrorKind = "not_found"
)

// Sentinels for errors.Is checks against an *Error of the same kind.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrTranscode       = &Error{Kind: KindTranscode}
	ErrTranscription   = &Error{Kind: KindTranscription}
	ErrSummarization   = &Error{Kind: KindSummarization}
	ErrPersistence     = &Error{Kind: KindPersistence}
	ErrEmptyTranscript = &Error{Kind: KindEmptyTranscript}
	ErrSequencer       = &Error{Kind: KindSequencer}
	ErrNotFound        = &Error{Kind: KindNotFound}
)

// Error is a classified failure for one session.
type Error struct {
	Kind      ErrorKind
	SessionID string
	Err       error
}

// NewError wraps err with a kind.
func NewError(kind ErrorKind, sessionID string, err error) *Error {
	return &Error{Kind: kind, SessionID: sessionID, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
