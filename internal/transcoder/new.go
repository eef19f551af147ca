package transcoder

import (
	"github.com/nguyentantai21042004/scribe/internal/config"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/pkg/executor"
)

type implTranscoder struct {
	binary     string
	sampleRate int
	channels   int
	tempDir    string
	executor   executor.Executor
	logger     logger.Logger
	sem        *semaphore
}

// New creates a Transcoder running ffmpeg through exec. At most
// maxConcurrent conversions run at once.
func New(cfg config.FFmpegConfig, tempDir string, maxConcurrent int, exec executor.Executor, log logger.Logger) Transcoder {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &implTranscoder{
		binary:     cfg.BinaryPath,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		tempDir:    tempDir,
		executor:   exec,
		logger:     log,
		sem:        newSemaphore(maxConcurrent),
	}
}
