package viewer

import "github.com/gorilla/websocket"

// HistoryLoadedMsg carries the persisted session, or nil if it does not exist yet.
type HistoryLoadedMsg struct {
	Session *Session
}

// HistoryErrorMsg is sent when the history could not be fetched.
type HistoryErrorMsg struct {
	Err error
}

// ConnectedMsg is sent when the websocket is joined to the session.
type ConnectedMsg struct {
	Conn *websocket.Conn
}

// EventMsg wraps a frame received on the websocket.
type EventMsg struct {
	Frame Frame
}

// DisconnectedMsg is sent when dialing or reading the websocket fails.
type DisconnectedMsg struct {
	Err error
}

// ReconnectTickMsg triggers a reconnection attempt.
type ReconnectTickMsg struct{}
