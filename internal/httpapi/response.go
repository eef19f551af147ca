package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

const (
	msgUploadFailed    = "Failed to process/transcribe chunk."
	msgSummarizeFailed = "Failed to summarize transcript."
	msgSessionsFailed  = "Failed to fetch sessions."
	msgExportFailed    = "Failed to export session."
	msgNoTranscript    = "No transcript available for this session."
	msgNotFound        = "Session not found."
)

type errorResponse struct {
	Error string `json:"error"`
}

type chunkView struct {
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

type sessionView struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	EndedAt   *time.Time  `json:"ended_at"`
	State     string      `json:"state"`
	Summary   *string     `json:"summary"`
	Chunks    []chunkView `json:"chunks"`
}

func newSessionView(d models.SessionDetail) sessionView {
	v := sessionView{
		ID:        d.ID,
		CreatedAt: d.CreatedAt.UTC(),
		State:     string(d.State),
		Chunks:    make([]chunkView, 0, len(d.Chunks)),
	}
	if d.EndedAt != nil {
		t := d.EndedAt.UTC()
		v.EndedAt = &t
	}
	if d.Summary != nil {
		text := d.Summary.Text
		v.Summary = &text
	}
	for _, c := range d.Chunks {
		v.Chunks = append(v.Chunks, chunkView{Ordinal: c.Ordinal, Text: c.Text})
	}
	return v
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn(ctx, "Failed to write response: %v", err)
	}
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation, models.KindEmptyTranscript:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
