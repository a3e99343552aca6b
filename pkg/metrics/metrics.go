// Package metrics defines the Prometheus collectors used across the
// dictionary core and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Each instance owns its registry
// so several can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	PartitionsTotal      *prometheus.CounterVec
	PartitionLatency     prometheus.Histogram
	EntriesLoaded        prometheus.Gauge
	DuplicateKeysTotal   prometheus.Counter
	SkippedRecordsTotal  prometheus.Counter
	DatasetReady         prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   prometheus.Histogram
	DebouncedInputsTotal prometheus.Counter
	ActiveListeners      prometheus.Gauge
	QuizAnswersTotal     *prometheus.CounterVec
	CircuitBreakerState  *prometheus.GaugeVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PartitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataset_partitions_total",
				Help: "Settled dataset partitions by outcome (loaded, failed).",
			},
			[]string{"outcome"},
		),
		PartitionLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dataset_partition_load_seconds",
				Help:    "Time to fetch and fold one partition.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		EntriesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dataset_entries",
				Help: "Entries currently held by the dataset.",
			},
		),
		DuplicateKeysTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dataset_duplicate_keys_total",
				Help: "Records dropped because their key was already loaded.",
			},
		),
		SkippedRecordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dataset_skipped_records_total",
				Help: "Records dropped because they could not be decoded or had no key.",
			},
		),
		DatasetReady: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dataset_ready",
				Help: "1 once every partition has settled.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Search queries by outcome (clear, insufficient, no_matches, matches).",
			},
			[]string{"status"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search latency in seconds by strategy.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
			[]string{"strategy"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of entries matched per search.",
				Buckets: []float64{0, 1, 3, 10, 30, 100, 300, 1000},
			},
		),
		DebouncedInputsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_debounced_inputs_total",
				Help: "Input events superseded before their debounce window elapsed.",
			},
		),
		ActiveListeners: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ui_active_listeners",
				Help: "Key and scroll listeners currently registered by view controllers.",
			},
		),
		QuizAnswersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_answers_total",
				Help: "Quiz answers by result (correct, wrong).",
			},
			[]string{"result"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "diagnostics_http_requests_total",
				Help: "Diagnostics endpoint requests by method, path and status code.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "diagnostics_http_request_duration_seconds",
				Help:    "Diagnostics endpoint latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "diagnostics_http_requests_in_flight",
				Help: "Diagnostics requests currently being served.",
			},
		),
	}

	m.Registry.MustRegister(
		m.PartitionsTotal,
		m.PartitionLatency,
		m.EntriesLoaded,
		m.DuplicateKeysTotal,
		m.SkippedRecordsTotal,
		m.DatasetReady,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.DebouncedInputsTotal,
		m.ActiveListeners,
		m.QuizAnswersTotal,
		m.CircuitBreakerState,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for m's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
