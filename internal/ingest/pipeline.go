package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/models"
)

func (p *implPipeline) Ingest(ctx context.Context, sessionID string, audio []byte, filename string) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Result{}, models.NewError(models.KindValidation, "", fmt.Errorf("sessionId is required"))
	}
	if len(audio) == 0 {
		return Result{}, models.NewError(models.KindValidation, sessionID, fmt.Errorf("audio chunk is empty"))
	}

	ctx = logger.WithFields(ctx, "session_id", sessionID)
	start := time.Now()

	if err := p.store.EnsureSession(ctx, sessionID); err != nil {
		return Result{}, p.fail(ctx, sessionID, models.KindPersistence, err)
	}

	stageStart := time.Now()
	pcm, err := p.transcoder.Transcode(ctx, audio, filename)
	if err != nil {
		return Result{}, p.fail(ctx, sessionID, models.KindTranscode, err)
	}
	defer func() {
		if err := pcm.Release(); err != nil {
			p.logger.Warn(ctx, "Failed to remove temp audio %s: %v", pcm.Path, err)
		}
	}()
	p.metrics.ObserveStage("transcode", time.Since(stageStart).Seconds())

	wav, err := pcm.Read()
	if err != nil {
		return Result{}, p.fail(ctx, sessionID, models.KindTranscode, err)
	}

	stageStart = time.Now()
	text, err := p.transcriber.Transcribe(ctx, wav)
	if err != nil {
		return Result{}, p.fail(ctx, sessionID, models.KindTranscription, err)
	}
	p.metrics.ObserveStage("transcribe", time.Since(stageStart).Seconds())

	// Persist and announce under the session's sequence lock so rows and
	// transcript_update events follow ordinal order.
	stageStart = time.Now()
	ordinal, err := p.sequencer.Append(ctx, sessionID, func(ordinal int) error {
		chunk := models.TranscriptChunk{
			SessionID: sessionID,
			Ordinal:   ordinal,
			Text:      text,
			CreatedAt: p.now(),
		}
		if err := p.store.InsertChunk(ctx, chunk); err != nil {
			return models.NewError(models.KindPersistence, sessionID, err)
		}
		p.hub.Publish(sessionID, models.NewTranscriptUpdate(sessionID, ordinal, text))
		return nil
	})
	if err != nil {
		kind := models.KindOf(err)
		if kind == "" {
			kind = models.KindPersistence
		}
		return Result{}, p.fail(ctx, sessionID, kind, err)
	}
	p.metrics.ObserveStage("persist", time.Since(stageStart).Seconds())

	p.hub.Publish(sessionID, models.NewSessionState(sessionID, models.StateRecording))

	p.metrics.RecordChunkIngested(len(audio))
	p.logger.Info(ctx, "Chunk %d saved (%d bytes audio, %d chars) in %s",
		ordinal, len(audio), len(text), time.Since(start).Round(time.Millisecond))

	return Result{SessionID: sessionID, Ordinal: ordinal, Text: text}, nil
}

// fail reports a failed chunk: log, session_error event, error state on the
// session. The returned error carries kind.
func (p *implPipeline) fail(ctx context.Context, sessionID string, kind models.ErrorKind, err error) error {
	p.logger.Error(ctx, "Chunk failed at %s: %v", kind, err)
	p.metrics.RecordChunkFailure(string(kind))

	p.hub.Publish(sessionID, models.NewSessionError(sessionID, err))

	if markErr := p.store.MarkSessionError(ctx, sessionID); markErr != nil {
		p.logger.Warn(ctx, "Failed to mark session error: %v", markErr)
	}

	var typed *models.Error
	if errors.As(err, &typed) && typed.Kind == kind {
		return typed
	}
	return models.NewError(kind, sessionID, err)
}
