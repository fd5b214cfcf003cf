package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const namespace = "court"

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	TranscriptionSegments *prometheus.CounterVec
	TranscriptionLatency  prometheus.Histogram
	TranscriptionJobs     *prometheus.CounterVec
	IdentityVerifications *prometheus.CounterVec
	WarrantEvents         *prometheus.CounterVec
	CacheLookups          *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   DefaultBuckets,
		}, []string{"method", "route", "status"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		TranscriptionSegments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_segments_total",
			Help:      "Real-time transcription segments by outcome.",
		}, []string{"result"}),
		TranscriptionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_provider_duration_seconds",
			Help:      "Latency of calls to the speech-to-text provider.",
			Buckets:   DefaultBuckets,
		}),
		TranscriptionJobs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_jobs_total",
			Help:      "Transcription jobs by terminal status.",
		}, []string{"status"}),
		IdentityVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_verifications_total",
			Help:      "Identity verifications by kind and result.",
		}, []string{"kind", "result"}),
		WarrantEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warrant_events_total",
			Help:      "Warrant lifecycle events.",
		}, []string{"event"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result.",
		}, []string{"cache", "result"}),
	}
}

// NewNop returns collectors registered on a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
