package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/logger"
)

// sessionQueue holds a session's pending chunk paths. One worker drains it.
type sessionQueue struct {
	pending []string
	queued  map[string]bool
	running bool
}

func (w *implWatcher) enqueue(ctx context.Context, sessionID, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	q, ok := w.queues[sessionID]
	if !ok {
		q = &sessionQueue{queued: make(map[string]bool)}
		w.queues[sessionID] = q
	}
	if q.queued[path] {
		return
	}
	q.queued[path] = true
	q.pending = append(q.pending, path)
	sort.Strings(q.pending)

	if !q.running {
		q.running = true
		w.wg.Add(1)
		go w.drain(ctx, sessionID, q)
	}
}

// next pops the lowest-named pending chunk, or marks the worker stopped.
func (w *implWatcher) next(q *sessionQueue) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(q.pending) == 0 {
		q.running = false
		return "", false
	}
	path := q.pending[0]
	q.pending = q.pending[1:]
	return path, true
}

func (w *implWatcher) done(q *sessionQueue, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(q.queued, path)
}

func (w *implWatcher) drain(ctx context.Context, sessionID string, q *sessionQueue) {
	defer w.wg.Done()
	ctx = logger.WithFields(ctx, "session_id", sessionID)

	for {
		path, ok := w.next(q)
		if !ok {
			return
		}

		select {
		case w.semaphore <- struct{}{}:
		case <-ctx.Done():
			w.mu.Lock()
			q.pending = nil
			q.queued = make(map[string]bool)
			q.running = false
			w.mu.Unlock()
			return
		}

		if err := w.process(ctx, sessionID, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
		<-w.semaphore
		w.done(q, path)
	}
}

// process ingests one file, then deletes it or moves it to the failed dir.
func (w *implWatcher) process(ctx context.Context, sessionID, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if age := time.Since(info.ModTime()); age < w.settle {
		select {
		case <-time.After(w.settle - age):
		case <-ctx.Done():
			// left in the spool for the next start
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	// a chunk that started is finished even when shutdown begins
	res, err := w.pipeline.Ingest(context.WithoutCancel(ctx), sessionID, data, filepath.Base(path))
	if err != nil {
		if moveErr := w.moveToFailed(sessionID, path); moveErr != nil {
			w.logger.Warn(ctx, "Failed to move %s aside: %v", path, moveErr)
		}
		return err
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn(ctx, "Failed to remove %s: %v", path, err)
	}
	w.logger.Info(ctx, "[DONE] %s -> chunk %d", filepath.Base(path), res.Ordinal)
	return nil
}

func (w *implWatcher) moveToFailed(sessionID, path string) error {
	if w.failedDir == "" {
		return nil
	}
	dir := filepath.Join(w.failedDir, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}
