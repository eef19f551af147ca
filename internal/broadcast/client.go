package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client-emitted message names.
const (
	MessageJoin  = "join_session"
	MessageLeave = "leave_session"
)

// ClientMessage is a frame sent by a websocket peer.
type ClientMessage struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId"`
}

// Client is a websocket subscriber. Events are queued in a bounded buffer and
// written by a single goroutine; a full buffer drops events for this client.
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    Broadcaster
	logger logger.Logger

	send      chan models.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. buffer bounds the send queue.
func NewClient(conn *websocket.Conn, hub Broadcaster, log logger.Logger, buffer int) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	return &Client{
		id:     uuid.NewString(),
		conn:   conn,
		hub:    hub,
		logger: log,
		send:   make(chan models.Event, buffer),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Deliver(event models.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// Run joins the given sessions, then serves the connection until the peer
// goes away or ctx is cancelled. It always leaves every channel on return.
func (c *Client) Run(ctx context.Context, sessions ...string) {
	defer c.close()
	defer c.hub.Leave(c.id)

	for _, sessionID := range sessions {
		if sessionID != "" {
			c.hub.Subscribe(sessionID, c)
		}
	}

	go c.writePump()

	go func() {
		select {
		case <-ctx.Done():
			c.close()
		case <-c.done:
		}
	}()

	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn(ctx, "Websocket %s closed unexpectedly: %v", c.id, err)
			}
			return
		}

		switch msg.Event {
		case MessageJoin:
			if msg.SessionID != "" {
				c.hub.Subscribe(msg.SessionID, c)
				c.logger.Info(ctx, "Socket %s joined session %s", c.id, msg.SessionID)
			}
		case MessageLeave:
			c.hub.Unsubscribe(msg.SessionID, c.id)
		default:
			c.logger.Debug(ctx, "Ignoring websocket message %q from %s", msg.Event, c.id)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
