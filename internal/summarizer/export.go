package summarizer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

func (s *implSummarizer) Export(ctx context.Context, sessionID string, w io.Writer) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.NewError(models.KindValidation, "", fmt.Errorf("sessionId is required"))
	}

	detail, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if models.KindOf(err) == models.KindNotFound {
			return err
		}
		return models.NewError(models.KindPersistence, sessionID, err)
	}

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	dir, err := os.MkdirTemp(s.tempDir, "export-*")
	if err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn(ctx, "Failed to remove %s: %v", dir, err)
		}
	}()

	path := filepath.Join(dir, "session.docx")
	if err := writeSessionDocx(detail, path); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return fmt.Errorf("stream docx: %w", err)
	}

	s.logger.Info(ctx, "Exported session %s (%d bytes)", sessionID, n)
	return nil
}
