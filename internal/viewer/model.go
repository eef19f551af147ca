// Package viewer is a terminal client that follows one session live.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

// Model is the root bubbletea model of the live viewer.
type Model struct {
	client    *Client
	sessionID string

	conn      *websocket.Conn
	connected bool

	state   string
	chunks  map[int]string
	summary string

	errorMessage string
	statusText   string

	reconnectAttempt int
	width            int
	height           int

	// transcript scrolls independently and follows the tail until the
	// user scrolls up.
	transcript viewport.Model
}

// chromeHeight is the number of lines View spends outside the transcript.
const chromeHeight = 8

// New creates a Model following sessionID on the server behind client.
func New(client *Client, sessionID string) Model {
	return Model{
		client:     client,
		sessionID:  sessionID,
		chunks:     make(map[int]string),
		statusText: "Loading history...",
		transcript: viewport.New(80, 10),
	}
}

// Init loads the history first; the live subscription follows.
func (m Model) Init() tea.Cmd {
	return fetchHistoryCmd(m.client, m.sessionID)
}

func fetchHistoryCmd(client *Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s, err := client.FetchSession(ctx, sessionID)
		if errors.Is(err, ErrSessionNotFound) {
			return HistoryLoadedMsg{}
		}
		if err != nil {
			return HistoryErrorMsg{Err: err}
		}
		return HistoryLoadedMsg{Session: s}
	}
}

func connectCmd(client *Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conn, err := client.Subscribe(ctx, sessionID)
		if err != nil {
			return DisconnectedMsg{Err: err}
		}
		return ConnectedMsg{Conn: conn}
	}
}

// readEventCmd reads the next frame from the websocket.
func readEventCmd(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			return DisconnectedMsg{Err: err}
		}
		return EventMsg{Frame: f}
	}
}

// reconnectCmd schedules a reconnection attempt with exponential backoff.
func reconnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 4)) * time.Second
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReconnectTickMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.conn != nil {
				m.conn.Close()
			}
			return m, tea.Quit
		case "r":
			return m, fetchHistoryCmd(m.client, m.sessionID)
		}
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width
		m.transcript.Height = max(msg.Height-chromeHeight, 3)
		m.refreshTranscript()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case HistoryLoadedMsg:
		m.applyHistory(msg.Session)
		m.refreshTranscript()
		if m.conn != nil {
			return m, nil
		}
		m.statusText = "Connecting..."
		return m, connectCmd(m.client, m.sessionID)

	case HistoryErrorMsg:
		m.errorMessage = msg.Err.Error()
		m.statusText = "Server unreachable. Retrying..."
		return m, reconnectCmd(m.reconnectAttempt)

	case ConnectedMsg:
		m.conn = msg.Conn
		m.connected = true
		m.reconnectAttempt = 0
		m.errorMessage = ""
		m.statusText = "Live"
		// refetch so chunks persisted while dialing are not missed
		return m, tea.Batch(readEventCmd(m.conn), fetchHistoryCmd(m.client, m.sessionID))

	case EventMsg:
		m.handleEvent(msg.Frame)
		m.refreshTranscript()
		if m.conn == nil {
			return m, nil
		}
		return m, readEventCmd(m.conn)

	case DisconnectedMsg:
		if m.conn != nil {
			m.conn.Close()
			m.conn = nil
		}
		m.connected = false
		m.errorMessage = msg.Err.Error()
		m.statusText = "Disconnected. Reconnecting..."
		return m, reconnectCmd(m.reconnectAttempt)

	case ReconnectTickMsg:
		m.reconnectAttempt++
		return m, fetchHistoryCmd(m.client, m.sessionID)
	}

	return m, nil
}

func (m *Model) applyHistory(s *Session) {
	if s == nil {
		if m.state == "" {
			m.state = "waiting"
		}
		return
	}
	m.state = s.State
	for _, c := range s.Chunks {
		m.chunks[c.Ordinal] = c.Text
	}
	if s.Summary != nil {
		m.summary = *s.Summary
	}
}

// handleEvent folds a live event into the model. Frames for other sessions
// or with unknown names are ignored.
func (m *Model) handleEvent(f Frame) {
	switch f.Event {
	case models.EventTranscriptUpdate:
		var u models.TranscriptUpdate
		if json.Unmarshal(f.Data, &u) == nil && u.SessionID == m.sessionID {
			m.chunks[u.Ordinal] = u.Text
		}

	case models.EventSessionState:
		var s models.SessionStateChange
		if json.Unmarshal(f.Data, &s) == nil && s.SessionID == m.sessionID {
			m.state = string(s.State)
		}

	case models.EventSummaryReady:
		var s models.SummaryReady
		if json.Unmarshal(f.Data, &s) == nil && s.SessionID == m.sessionID {
			m.summary = s.Summary
		}

	case models.EventSessionError:
		var e models.SessionFailure
		if json.Unmarshal(f.Data, &e) == nil && e.SessionID == m.sessionID {
			m.errorMessage = e.Error
		}
	}
}

// Transcript returns the chunk texts in ordinal order.
func (m Model) Transcript() []string {
	ordinals := make([]int, 0, len(m.chunks))
	for ord := range m.chunks {
		ordinals = append(ordinals, ord)
	}
	sort.Ints(ordinals)

	lines := make([]string, 0, len(ordinals))
	for _, ord := range ordinals {
		lines = append(lines, m.chunks[ord])
	}
	return lines
}

// refreshTranscript re-renders the transcript into the viewport, keeping the
// newest line in view when the viewport was already at the bottom.
func (m *Model) refreshTranscript() {
	follow := m.transcript.AtBottom()

	width := m.transcript.Width
	if width <= 0 {
		width = 80
	}
	lines := m.Transcript()
	rendered := make([]string, 0, len(lines))
	for i, text := range lines {
		prefix := ordinalStyle.Render(fmt.Sprintf("%3d ", i))
		rendered = append(rendered, prefix+lipgloss.NewStyle().Width(max(width-4, 20)).Render(text))
	}
	m.transcript.SetContent(strings.Join(rendered, "\n"))

	if follow {
		m.transcript.GotoBottom()
	}
}

// View renders the session header, the transcript and the summary.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("scribe · "+m.sessionID) + "  " + m.stateBadge())
	b.WriteString("\n" + statusStyle.Render(m.statusText) + "\n\n")

	width := m.width
	if width <= 0 {
		width = 80
	}
	if len(m.chunks) == 0 {
		b.WriteString(statusStyle.Render("No transcript yet.") + "\n")
	} else {
		b.WriteString(m.transcript.View() + "\n")
	}

	if m.summary != "" {
		b.WriteString("\n" + summaryStyle.Width(max(width-4, 20)).Render(m.summary) + "\n")
	}

	if m.errorMessage != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+m.errorMessage) + "\n")
	}

	b.WriteString("\n" + statusStyle.Render("q quit · r reload · ↑/↓ scroll"))
	return b.String()
}

func (m Model) stateBadge() string {
	switch m.state {
	case string(models.StateRecording):
		return recordingStyle.Render("● recording")
	case string(models.StateCompleted):
		return completedStyle.Render("✓ completed")
	case string(models.StateError):
		return errorStyle.Render("✗ error")
	case "":
		return ""
	default:
		return statusStyle.Render(m.state)
	}
}
