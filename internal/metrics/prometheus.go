package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the scribe service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Chunk ingestion metrics
	ChunksIngested prometheus.Counter
	ChunkFailures  *prometheus.CounterVec
	ChunkSize      prometheus.Histogram
	StageDuration  *prometheus.HistogramVec

	// Summary metrics
	Summaries        prometheus.Counter
	SummaryFailures  prometheus.Counter
	SummaryDuration  prometheus.Histogram
	TranscriptLength prometheus.Histogram

	// Realtime metrics
	EventsDelivered prometheus.Counter
	EventsDropped   prometheus.Counter
	Subscribers     prometheus.Gauge

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChunksIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_chunks_ingested_total",
			Help: "Total number of audio chunks transcribed and persisted",
		}),
		ChunkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_chunk_failures_total",
			Help: "Total number of failed chunk ingestions by error kind",
		}, []string{"kind"}),
		ChunkSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_chunk_size_bytes",
			Help:    "Size of uploaded audio chunks in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 12), // 1KB to ~4MB
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scribe_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}, []string{"stage"}),

		Summaries: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_summaries_total",
			Help: "Total number of summaries persisted",
		}),
		SummaryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_summary_failures_total",
			Help: "Total number of failed summarize requests",
		}),
		SummaryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_summary_duration_seconds",
			Help:    "Duration of summary generation",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),
		TranscriptLength: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_transcript_chunks",
			Help:    "Number of chunks in summarized transcripts",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		EventsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_events_delivered_total",
			Help: "Total number of realtime events queued to subscribers",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_events_dropped_total",
			Help: "Total number of realtime events dropped for slow subscribers",
		}),
		Subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scribe_subscribers",
			Help: "Current number of session subscriptions",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scribe_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordChunkIngested records a persisted chunk and its upload size.
func (m *Metrics) RecordChunkIngested(sizeBytes int) {
	if m == nil {
		return
	}
	m.ChunksIngested.Inc()
	m.ChunkSize.Observe(float64(sizeBytes))
}

// RecordChunkFailure increments the failure counter for an error kind.
func (m *Metrics) RecordChunkFailure(kind string) {
	if m == nil {
		return
	}
	m.ChunkFailures.WithLabelValues(kind).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordSummary records a persisted summary.
func (m *Metrics) RecordSummary(chunks int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.Summaries.Inc()
	m.TranscriptLength.Observe(float64(chunks))
	m.SummaryDuration.Observe(durationSeconds)
}

// RecordSummaryFailure increments the summary failure counter.
func (m *Metrics) RecordSummaryFailure() {
	if m == nil {
		return
	}
	m.SummaryFailures.Inc()
}

// RecordDelivery counts one event handed to a subscriber, or dropped.
func (m *Metrics) RecordDelivery(delivered bool) {
	if m == nil {
		return
	}
	if delivered {
		m.EventsDelivered.Inc()
	} else {
		m.EventsDropped.Inc()
	}
}

// AddSubscribers moves the subscription gauge by delta.
func (m *Metrics) AddSubscribers(delta int) {
	if m == nil {
		return
	}
	m.Subscribers.Add(float64(delta))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	if m == nil {
		return
	}
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
