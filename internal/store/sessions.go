package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

func (s *implStore) EnsureSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO sessions (id, created_at, state)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET state = excluded.state
		WHERE sessions.state = ?
	`), sessionID, toMillis(s.now()), string(models.StateRecording), string(models.StateError))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *implStore) MarkSessionError(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`UPDATE sessions SET state = ? WHERE id = ? AND state <> ?`),
		string(models.StateError), sessionID, string(models.StateCompleted))
	if err != nil {
		return fmt.Errorf("mark session error: %w", err)
	}
	return nil
}

func (s *implStore) CompleteSession(ctx context.Context, sessionID string, endedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE sessions SET ended_at = ?, state = ? WHERE id = ?`),
		toMillis(endedAt), string(models.StateCompleted), sessionID)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NewError(models.KindNotFound, sessionID, fmt.Errorf("session %q not found", sessionID))
	}
	return nil
}

// GetSession returns a *models.Error of kind not_found for unknown ids.
func (s *implStore) GetSession(ctx context.Context, sessionID string) (*models.SessionDetail, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT s.id, s.created_at, s.ended_at, s.state, su.text, su.model, su.updated_at
		FROM sessions s
		LEFT JOIN summaries su ON su.session_id = s.id
		WHERE s.id = ?
	`), sessionID)

	detail, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewError(models.KindNotFound, sessionID, fmt.Errorf("session %q not found", sessionID))
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	chunks, err := s.ListChunks(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	detail.Chunks = chunks

	return detail, nil
}

func (s *implStore) ListSessions(ctx context.Context) ([]models.SessionDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.created_at, s.ended_at, s.state, su.text, su.model, su.updated_at
		FROM sessions s
		LEFT JOIN summaries su ON su.session_id = s.id
		ORDER BY s.created_at DESC, s.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	var sessions []models.SessionDetail
	index := make(map[string]int)
	for rows.Next() {
		detail, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		index[detail.ID] = len(sessions)
		sessions = append(sessions, *detail)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	rows.Close()

	// Second pass rather than a nested query: sqlite runs on one connection.
	chunkRows, err := s.db.QueryContext(ctx, `
		SELECT session_id, ordinal, text, created_at
		FROM transcript_chunks
		ORDER BY session_id, ordinal ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer chunkRows.Close()

	for chunkRows.Next() {
		c, err := scanChunk(chunkRows)
		if err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if i, ok := index[c.SessionID]; ok {
			sessions[i].Chunks = append(sessions[i].Chunks, c)
		}
	}
	if err := chunkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.SessionDetail, error) {
	var (
		d         models.SessionDetail
		createdAt int64
		endedAt   sql.NullInt64
		state     string
		sumText   sql.NullString
		sumModel  sql.NullString
		sumAt     sql.NullInt64
	)
	if err := row.Scan(&d.ID, &createdAt, &endedAt, &state, &sumText, &sumModel, &sumAt); err != nil {
		return nil, err
	}

	d.CreatedAt = fromMillis(createdAt)
	d.State = models.SessionState(state)
	if endedAt.Valid {
		t := fromMillis(endedAt.Int64)
		d.EndedAt = &t
	}
	if sumText.Valid {
		d.Summary = &models.Summary{
			SessionID: d.ID,
			Text:      sumText.String,
			Model:     sumModel.String,
			UpdatedAt: fromMillis(sumAt.Int64),
		}
	}
	return &d, nil
}
