package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/models"
	"google.golang.org/genai"
)

const summaryPrompt = `You are an expert multilingual transcript summarizer.
Summarize the following audio transcript. Produce concise bullet points covering the most important ideas, events, arguments, steps, explanations, or actions -- whatever is relevant for this context.
- Do NOT assume this is a formal meeting; handle voice notes, podcasts, interviews, lectures, chats, etc.
- If text is in more than one language (e.g. Hindi + English + Hinglish), preserve language-mixing in the summary too.
- If code, commands, or technical instructions are present, summarize their essence.
- Provide 1-3 lines at the top with the topic or main gist (if you can infer).
- If there are clear next steps, tasks, or conclusions, highlight them as separate bullet points.
Here is the full transcript, possibly in multiple languages:
%s
`

func (s *implSummarizer) Summarize(ctx context.Context, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", models.NewError(models.KindValidation, "", fmt.Errorf("sessionId is required"))
	}
	ctx = logger.WithFields(ctx, "session_id", sessionID)
	start := time.Now()

	chunks, err := s.store.ListChunks(ctx, sessionID)
	if err != nil {
		return "", s.fail(ctx, sessionID, models.KindPersistence, fmt.Errorf("load transcript: %w", err))
	}
	if len(chunks) == 0 {
		s.logger.Info(ctx, "No transcript to summarize")
		return "", models.NewError(models.KindEmptyTranscript, sessionID, fmt.Errorf("no transcript available for session %q", sessionID))
	}

	s.logger.Info(ctx, "Summarizing %d chunks", len(chunks))

	summary, err := s.client.Generate(ctx, s.model, genai.Text(fmt.Sprintf(summaryPrompt, joinTranscript(chunks))))
	if err != nil {
		return "", s.fail(ctx, sessionID, models.KindSummarization, err)
	}

	if err := s.store.UpsertSummary(ctx, models.Summary{
		SessionID: sessionID,
		Text:      summary,
		Model:     s.model,
		UpdatedAt: s.now(),
	}); err != nil {
		return "", s.fail(ctx, sessionID, models.KindPersistence, err)
	}
	if err := s.store.CompleteSession(ctx, sessionID, s.now()); err != nil {
		return "", s.fail(ctx, sessionID, models.KindPersistence, err)
	}
	if s.seq != nil {
		s.seq.Forget(sessionID)
	}

	s.hub.Publish(sessionID, models.NewSummaryReady(sessionID, summary))
	s.hub.Publish(sessionID, models.NewSessionState(sessionID, models.StateCompleted))

	s.metrics.RecordSummary(len(chunks), time.Since(start).Seconds())
	s.logger.Info(ctx, "Summary saved (%d chars) in %s", len(summary), time.Since(start).Round(time.Millisecond))
	return summary, nil
}

// fail announces the failure on the session channel and wraps err with kind.
// The session state is left as it was.
func (s *implSummarizer) fail(ctx context.Context, sessionID string, kind models.ErrorKind, err error) error {
	s.logger.Error(ctx, "Summarize failed (%s): %v", kind, err)
	s.metrics.RecordSummaryFailure()
	s.hub.Publish(sessionID, models.NewSessionError(sessionID, err))
	return models.NewError(kind, sessionID, err)
}

// joinTranscript concatenates chunk texts in ordinal order with single spaces.
func joinTranscript(chunks []models.TranscriptChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, " ")
}
