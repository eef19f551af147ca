package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload-chunk", s.withMetrics("/upload-chunk", s.withTimeout(s.handleUploadChunk)))
	mux.HandleFunc("POST /summarize", s.withMetrics("/summarize", s.withTimeout(s.handleSummarize)))
	mux.HandleFunc("GET /sessions", s.withMetrics("/sessions", s.withTimeout(s.handleListSessions)))
	mux.HandleFunc("GET /sessions/{id}", s.withMetrics("/sessions/{id}", s.withTimeout(s.handleGetSession)))
	mux.HandleFunc("GET /sessions/{id}/export", s.withMetrics("/sessions/{id}/export", s.withTimeout(s.handleExport)))
	mux.HandleFunc("GET /health", s.withMetrics("/health", s.handleHealth))

	// Long-lived; no deadline and no status wrapper so the connection can be hijacked.
	mux.HandleFunc("GET /ws", s.handleWebsocket)

	if s.deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
}
