package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for engagesync
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Pipeline Metrics
	RecordsProcessedTotal  prometheus.CounterVec
	DeliveryDuration       prometheus.HistogramVec
	AuditWriteFailures     prometheus.Counter
	DispatchBatchesTotal   prometheus.CounterVec
	DispatchBatchesDropped prometheus.Counter
	DispatchQueueLength    prometheus.GaugeVec
	BatchDuration          prometheus.Histogram
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics.
// Metrics go to the default Prometheus registerer, so call it once per process.
func NewMetricsRegistry() *MetricsRegistry {
	return newMetricsRegistry(promauto.With(prometheus.DefaultRegisterer))
}

// NewIsolatedRegistry registers the metrics on a private registry; tests use it
// to build any number of registries in one process.
func NewIsolatedRegistry() *MetricsRegistry {
	return newMetricsRegistry(promauto.With(prometheus.NewRegistry()))
}

func newMetricsRegistry(factory promauto.Factory) *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagesync_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engagesync_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "engagesync_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagesync_cache_hits_total",
				Help: "Total sync config cache hits by key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagesync_cache_misses_total",
				Help: "Total sync config cache misses by key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Pipeline Metrics
		RecordsProcessedTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagesync_records_processed_total",
				Help: "Records taken through the sync pipeline by entity type and outcome",
			},
			[]string{"entity_type", "outcome"},
		),
		DeliveryDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engagesync_delivery_duration_seconds",
				Help:    "Upload request latency against the engagement platform",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"status_code"},
		),
		AuditWriteFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "engagesync_audit_write_failures_total",
				Help: "Sync log entries that could not be persisted",
			},
		),
		DispatchBatchesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagesync_dispatch_batches_total",
				Help: "Batches handed to the dispatch backend",
			},
			[]string{"backend"},
		),
		DispatchBatchesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "engagesync_dispatch_batches_dropped_total",
				Help: "Batches dropped because the dispatch queue was full or unreachable",
			},
		),
		DispatchQueueLength: *factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "engagesync_dispatch_queue_length",
				Help: "Entries in the dispatch stream by state",
			},
			[]string{"state"},
		),
		BatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "engagesync_batch_duration_seconds",
				Help:    "Time to take one batch through the pipeline",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
	}
}
