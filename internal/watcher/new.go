package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/scribe/internal/ingest"
	"github.com/nguyentantai21042004/scribe/internal/logger"
)

// DefaultSettle is how old a file must be before it is read, so recorders
// have finished writing it.
const DefaultSettle = 500 * time.Millisecond

type implWatcher struct {
	spoolDir  string
	failedDir string
	pipeline  ingest.Pipeline
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	settle    time.Duration

	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup

	mu     sync.Mutex
	queues map[string]*sessionQueue
}

// New creates a spool Watcher. Chunks of different sessions are ingested in
// parallel, at most maxConcurrent at a time; chunks of one session run one
// by one in file name order. Failed files are moved under failedDir.
func New(spoolDir, failedDir string, pipeline ingest.Pipeline, log logger.Logger, maxConcurrent int, settle time.Duration) (Watcher, error) {
	if err := os.MkdirAll(spoolDir, 0755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(spoolDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if settle < 0 {
		settle = DefaultSettle
	}

	return &implWatcher{
		spoolDir:      spoolDir,
		failedDir:     failedDir,
		pipeline:      pipeline,
		logger:        log,
		watcher:       watcher,
		settle:        settle,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		queues:        make(map[string]*sessionQueue),
	}, nil
}
