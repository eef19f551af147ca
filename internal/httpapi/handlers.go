package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/models"
)

const multipartMemory = 8 << 20

type uploadResponse struct {
	Transcript string `json:"transcript"`
}

type summarizeRequest struct {
	SessionID string `json:"sessionId"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// handleUploadChunk accepts multipart form fields sessionId and audio.
func (s *Server) handleUploadChunk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(ctx, w, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("Chunk exceeds %d bytes.", s.cfg.MaxUploadBytes)})
			return
		}
		s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "Expected multipart form with sessionId and audio."})
		return
	}
	defer r.MultipartForm.RemoveAll()

	sessionID := strings.TrimSpace(r.FormValue("sessionId"))
	file, header, err := r.FormFile("audio")
	if sessionID == "" || err != nil {
		s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "sessionId and audio file are required."})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error(ctx, "Failed to read upload: %v", err)
		s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "Could not read audio file."})
		return
	}

	res, err := s.deps.Pipeline.Ingest(ctx, sessionID, audio, header.Filename)
	if err != nil {
		status := statusFor(err)
		msg := msgUploadFailed
		if status == http.StatusBadRequest {
			msg = "sessionId and audio file are required."
		}
		s.writeJSON(ctx, w, status, errorResponse{Error: msg})
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, uploadResponse{Transcript: res.Text})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req summarizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "Expected JSON body with sessionId."})
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "sessionId is required."})
		return
	}

	summary, err := s.deps.Summarizer.Summarize(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyTranscript):
			s.writeJSON(ctx, w, http.StatusBadRequest, summarizeResponse{Summary: msgNoTranscript})
		case errors.Is(err, models.ErrValidation):
			s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "sessionId is required."})
		default:
			s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgSummarizeFailed})
		}
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, summarizeResponse{Summary: summary})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessions, err := s.deps.Store.ListSessions(ctx)
	if err != nil {
		s.logger.Error(ctx, "List sessions: %v", err)
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgSessionsFailed})
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, d := range sessions {
		views = append(views, newSessionView(d))
	}
	s.writeJSON(ctx, w, http.StatusOK, views)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.PathValue("id")

	detail, err := s.deps.Store.GetSession(ctx, sessionID)
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			s.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: msgNotFound})
			return
		}
		s.logger.Error(ctx, "Get session %s: %v", sessionID, err)
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgSessionsFailed})
		return
	}

	s.writeJSON(ctx, w, http.StatusOK, newSessionView(*detail))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.PathValue("id")
	ctx = logger.WithFields(ctx, "session_id", sessionID)

	// Buffer so a failed render can still report a status.
	var buf bytes.Buffer
	if err := s.deps.Summarizer.Export(ctx, sessionID, &buf); err != nil {
		if statusFor(err) == http.StatusNotFound {
			s.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: msgNotFound})
			return
		}
		s.logger.Error(ctx, "Export: %v", err)
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: msgExportFailed})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.docx"`, exportName(sessionID)))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn(ctx, "Failed to stream export: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, healthResponse{
		Status: "healthy",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

// exportName keeps the session id safe for a Content-Disposition filename.
func exportName(sessionID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, sessionID)
	return "session-" + name
}
