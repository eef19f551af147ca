package ingest

import (
	"time"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/metrics"
	"github.com/nguyentantai21042004/scribe/internal/sequencer"
	"github.com/nguyentantai21042004/scribe/internal/store"
	"github.com/nguyentantai21042004/scribe/internal/transcoder"
	"github.com/nguyentantai21042004/scribe/internal/transcriber"
)

type implPipeline struct {
	store       store.Store
	sequencer   sequencer.Sequencer
	transcoder  transcoder.Transcoder
	transcriber transcriber.Transcriber
	hub         broadcast.Broadcaster
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// New wires the pipeline stages together. metrics may be nil.
func New(st store.Store, seq sequencer.Sequencer, tc transcoder.Transcoder, tr transcriber.Transcriber,
	hub broadcast.Broadcaster, m *metrics.Metrics, log logger.Logger) Pipeline {
	return &implPipeline{
		store:       st,
		sequencer:   seq,
		transcoder:  tc,
		transcriber: tr,
		hub:         hub,
		metrics:     m,
		logger:      log,
		now:         time.Now,
	}
}
