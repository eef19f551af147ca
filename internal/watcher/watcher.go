package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
)

var audioExtensions = []string{".webm", ".ogg", ".wav", ".mp3", ".m4a", ".opus"}

// Start begins monitoring the spool directory for new chunks
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Spool watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.spoolDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(audioExtensions, ", "))

	if err := w.scanSpool(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing chunks to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Spool watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.handleCreate(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) handleCreate(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		// renamed away or already consumed
		return
	}

	if info.IsDir() {
		if filepath.Dir(path) != filepath.Clean(w.spoolDir) {
			w.logger.Debug(ctx, "Ignoring nested directory: %s", path)
			return
		}
		if err := w.watchSession(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to watch %s: %v", path, err)
		}
		return
	}

	sessionID, ok := w.sessionOf(path)
	if !ok {
		w.logger.Debug(ctx, "Ignoring file outside a session directory: %s", path)
		return
	}
	if !isAudioFile(path) {
		w.logger.Debug(ctx, "Ignoring non-audio file: %s", path)
		return
	}

	w.logger.Info(ctx, "New chunk detected: %s", path)
	w.enqueue(ctx, sessionID, path)
}

// scanSpool picks up session directories and chunks left from before start.
func (w *implWatcher) scanSpool(ctx context.Context) error {
	entries, err := os.ReadDir(w.spoolDir)
	if err != nil {
		return fmt.Errorf("read spool dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			if err := w.watchSession(ctx, filepath.Join(w.spoolDir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// watchSession adds a session directory to the watch list and queues the
// chunks already inside it. Files created between the two steps are seen by
// both and deduplicated by the queue.
func (w *implWatcher) watchSession(ctx context.Context, dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	sessionID := filepath.Base(dir)
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() || !isAudioFile(path) {
			continue
		}
		w.enqueue(ctx, sessionID, path)
	}
	return nil
}

// sessionOf returns the session id for a file at <spool>/<sessionId>/<name>.
func (w *implWatcher) sessionOf(path string) (string, bool) {
	rel, err := filepath.Rel(w.spoolDir, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 || parts[0] == "" || parts[0] == ".." {
		return "", false
	}
	return parts[0], true
}

// isAudioFile checks if the file has a supported audio extension
func isAudioFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return slices.Contains(audioExtensions, strings.ToLower(filepath.Ext(name)))
}
