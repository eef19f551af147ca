package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
	"github.com/nguyentantai21042004/scribe/internal/gemini"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/metrics"
	"github.com/nguyentantai21042004/scribe/internal/sequencer"
	"github.com/nguyentantai21042004/scribe/internal/store"
)

type implSummarizer struct {
	store   store.Store
	client  gemini.Client
	hub     broadcast.Broadcaster
	seq     sequencer.Sequencer
	metrics *metrics.Metrics
	logger  logger.Logger
	model   string
	tempDir string
	now     func() time.Time
}

// New creates a Summarizer. model names the Gemini model used for summaries;
// tempDir holds export files while they are written. seq may be nil; when set,
// a completed session's ordinal counter is released.
func New(st store.Store, client gemini.Client, hub broadcast.Broadcaster, seq sequencer.Sequencer,
	m *metrics.Metrics, model, tempDir string, log logger.Logger) Summarizer {
	return &implSummarizer{
		store:   st,
		client:  client,
		hub:     hub,
		seq:     seq,
		metrics: m,
		logger:  log,
		model:   model,
		tempDir: tempDir,
		now:     time.Now,
	}
}
