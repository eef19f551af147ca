package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordChunkIngested(10)
	m.RecordChunkFailure("transcode")
	m.ObserveStage("transcode", 0.1)
	m.RecordSummary(3, 1)
	m.RecordSummaryFailure()
	m.RecordDelivery(true)
	m.AddSubscribers(1)
	m.RecordHTTPRequest("GET", "/sessions", "200", 0.01)
	m.RecordHTTPError("GET", "/sessions", "server_error")
}

func TestRecordings(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordChunkIngested(2048)
	m.RecordChunkIngested(4096)
	m.RecordChunkFailure("transcode")
	m.RecordDelivery(true)
	m.RecordDelivery(false)
	m.RecordDelivery(false)
	m.AddSubscribers(2)
	m.AddSubscribers(-1)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"chunks ingested", testutil.ToFloat64(m.ChunksIngested), 2},
		{"transcode failures", testutil.ToFloat64(m.ChunkFailures.WithLabelValues("transcode")), 1},
		{"delivered", testutil.ToFloat64(m.EventsDelivered), 1},
		{"dropped", testutil.ToFloat64(m.EventsDropped), 2},
		{"subscribers", testutil.ToFloat64(m.Subscribers), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}
