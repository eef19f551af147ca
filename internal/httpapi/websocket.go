package httpapi

import (
	"net/http"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
)

// handleWebsocket upgrades the connection and serves it as a broadcast
// client. ?sessionId= joins that session right away; more can be joined with
// join_session frames.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "Websocket upgrade failed: %v", err)
		return
	}

	client := broadcast.NewClient(conn, s.deps.Broadcaster, s.logger, s.deps.SendBuffer)
	s.logger.Debug(r.Context(), "Websocket client %s connected", client.ID())
	client.Run(s.ctx, r.URL.Query().Get("sessionId"))
	s.logger.Debug(r.Context(), "Websocket client %s disconnected", client.ID())
}
