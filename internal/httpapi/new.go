// Package httpapi exposes the transcript pipeline over HTTP and websockets.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
	"github.com/nguyentantai21042004/scribe/internal/config"
	"github.com/nguyentantai21042004/scribe/internal/ingest"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/metrics"
	"github.com/nguyentantai21042004/scribe/internal/store"
	"github.com/nguyentantai21042004/scribe/internal/summarizer"
)

// Deps are the process-wide handles the handlers use.
type Deps struct {
	Pipeline    ingest.Pipeline
	Summarizer  summarizer.Summarizer
	Store       store.Store
	Broadcaster broadcast.Broadcaster
	Metrics     *metrics.Metrics
	// Gatherer backs GET /metrics. Nil means the default registry.
	Gatherer prometheus.Gatherer
	// SendBuffer bounds each websocket client's event queue.
	SendBuffer int
}

// Server is the HTTP API.
type Server struct {
	cfg      config.ServerConfig
	deps     Deps
	logger   logger.Logger
	upgrader websocket.Upgrader
	server   *http.Server

	startTime time.Time
	// ctx outlives requests; cancelling it closes websocket clients.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the API server for cfg.Address.
func New(cfg config.ServerConfig, deps Deps, log logger.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:       cfg,
		deps:      deps,
		logger:    log,
		startTime: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.withRequestID(s.withCORS(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
