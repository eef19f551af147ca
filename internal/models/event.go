package models

// Realtime event names emitted on a session channel.
const (
	EventTranscriptUpdate = "transcript_update"
	EventSessionState     = "session_state"
	EventSummaryReady     = "summary_ready"
	EventSessionError     = "session_error"
)

// Event is one named notification on a session channel.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type TranscriptUpdate struct {
	SessionID string `json:"sessionId"`
	Ordinal   int    `json:"ordinal"`
	Text      string `json:"text"`
}

type SessionStateChange struct {
	SessionID string       `json:"sessionId"`
	State     SessionState `json:"state"`
}

type SummaryReady struct {
	SessionID string `json:"sessionId"`
	Summary   string `json:"summary"`
}

type SessionFailure struct {
	SessionID string `json:"sessionId"`
	Error     string `json:"error"`
}

// NewTranscriptUpdate builds a transcript_update event.
func NewTranscriptUpdate(sessionID string, ordinal int, text string) Event {
	return Event{Name: EventTranscriptUpdate, Data: TranscriptUpdate{SessionID: sessionID, Ordinal: ordinal, Text: text}}
}

// NewSessionState builds a session_state event.
func NewSessionState(sessionID string, state SessionState) Event {
	return Event{Name: EventSessionState, Data: SessionStateChange{SessionID: sessionID, State: state}}
}

// NewSummaryReady builds a summary_ready event.
func NewSummaryReady(sessionID, summary string) Event {
	return Event{Name: EventSummaryReady, Data: SummaryReady{SessionID: sessionID, Summary: summary}}
}

// NewSessionError builds a session_error event.
func NewSessionError(sessionID string, err error) Event {
	return Event{Name: EventSessionError, Data: SessionFailure{SessionID: sessionID, Error: err.Error()}}
}
