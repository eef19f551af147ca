package broadcast

import (
	"sync"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/metrics"
)

type channel struct {
	mu   sync.Mutex // serializes publishes on this channel
	subs map[string]Subscriber
}

type implHub struct {
	logger  logger.Logger
	metrics *metrics.Metrics

	mu          sync.RWMutex
	channels    map[string]*channel
	memberships map[string]map[string]struct{} // subscriber id -> session ids
}

// New creates an in-process Broadcaster. m may be nil.
func New(log logger.Logger, m *metrics.Metrics) Broadcaster {
	return &implHub{
		logger:      log,
		metrics:     m,
		channels:    make(map[string]*channel),
		memberships: make(map[string]map[string]struct{}),
	}
}
