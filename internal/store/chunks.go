package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

func (s *implStore) InsertChunk(ctx context.Context, chunk models.TranscriptChunk) error {
	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO transcript_chunks (session_id, ordinal, text, created_at)
		VALUES (?, ?, ?, ?)
	`), chunk.SessionID, chunk.Ordinal, chunk.Text, toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("insert chunk %s/%d: %w", chunk.SessionID, chunk.Ordinal, err)
	}
	return nil
}

func (s *implStore) ListChunks(ctx context.Context, sessionID string) ([]models.TranscriptChunk, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT session_id, ordinal, text, created_at
		FROM transcript_chunks
		WHERE session_id = ?
		ORDER BY ordinal ASC
	`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.TranscriptChunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *implStore) MaxOrdinal(ctx context.Context, sessionID string) (int, error) {
	var maxOrdinal sql.NullInt64
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT MAX(ordinal) FROM transcript_chunks WHERE session_id = ?
	`), sessionID).Scan(&maxOrdinal)
	if err != nil {
		return 0, fmt.Errorf("query max ordinal: %w", err)
	}
	if !maxOrdinal.Valid {
		return -1, nil
	}
	return int(maxOrdinal.Int64), nil
}

func (s *implStore) UpsertSummary(ctx context.Context, summary models.Summary) error {
	updatedAt := summary.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO summaries (session_id, text, model, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE
		SET text = excluded.text, model = excluded.model, updated_at = excluded.updated_at
	`), summary.SessionID, summary.Text, summary.Model, toMillis(updatedAt))
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

func (s *implStore) GetSummary(ctx context.Context, sessionID string) (*models.Summary, error) {
	var (
		sum       models.Summary
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT session_id, text, model, updated_at FROM summaries WHERE session_id = ?
	`), sessionID).Scan(&sum.SessionID, &sum.Text, &sum.Model, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query summary: %w", err)
	}
	sum.UpdatedAt = fromMillis(updatedAt)
	return &sum, nil
}

func scanChunk(row rowScanner) (models.TranscriptChunk, error) {
	var (
		c         models.TranscriptChunk
		createdAt int64
	)
	if err := row.Scan(&c.SessionID, &c.Ordinal, &c.Text, &createdAt); err != nil {
		return c, err
	}
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}
