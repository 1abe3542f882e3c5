// Package metrics provides Prometheus metrics for the match ledger service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ledger state
	matchesTotal prometheus.Gauge
	rosterTotal  prometheus.Gauge
	draftPlayers prometheus.Gauge

	// Ledger operations
	commits            *prometheus.CounterVec
	validationFailures prometheus.Counter
	deletions          *prometheus.CounterVec
	renameCascade      prometheus.Histogram

	// Persistence
	persistLatency *prometheus.HistogramVec
	persistErrors  *prometheus.CounterVec
	pendingWrites  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchledger",
		subsystem:        "ledger",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.matchesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches",
		Help:      "Number of recorded matches",
	})

	m.rosterTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_entries",
		Help:      "Number of saved roster entries",
	})

	m.draftPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "draft_players",
		Help:      "Number of players attached to the current draft",
	})

	m.commits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "commits_total",
		Help:      "Committed drafts by mode (insert or replace)",
	}, []string{"mode"})

	m.validationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Commits rejected because required fields were empty",
	})

	m.deletions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "deletions_total",
		Help:      "Confirmed deletions by kind (match or roster)",
	}, []string{"kind"})

	m.renameCascade = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rename_cascade_lines",
		Help:      "Player lines rewritten by one roster rename",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	m.persistLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_latency_milliseconds",
		Help:      "Latency of whole-collection writes by key",
		Buckets:   m.histogramBuckets,
	}, []string{"key"})

	m.persistErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_errors_total",
		Help:      "Failed whole-collection writes by key",
	}, []string{"key"})

	m.pendingWrites = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pending_writes",
		Help:      "Collections whose latest state has not reached storage yet",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "HTTP errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause in milliseconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
}

// UpdateMatchCount sets the number of recorded matches.
func UpdateMatchCount(n int) {
	globalManager.matchesTotal.Set(float64(n))
}

// UpdateRosterCount sets the number of roster entries.
func UpdateRosterCount(n int) {
	globalManager.rosterTotal.Set(float64(n))
}

// UpdateDraftPlayers sets the number of players on the draft.
func UpdateDraftPlayers(n int) {
	globalManager.draftPlayers.Set(float64(n))
}

// RecordCommit counts a committed draft.
func RecordCommit(mode string) {
	globalManager.commits.WithLabelValues(mode).Inc()
}

// RecordValidationFailure counts a rejected commit.
func RecordValidationFailure() {
	globalManager.validationFailures.Inc()
}

// RecordDeletion counts a confirmed deletion.
func RecordDeletion(kind string) {
	globalManager.deletions.WithLabelValues(kind).Inc()
}

// RecordRenameCascade observes how many lines a rename rewrote.
func RecordRenameCascade(lines int) {
	globalManager.renameCascade.Observe(float64(lines))
}

// RecordPersistLatency records a whole-collection write.
func RecordPersistLatency(key string, latencyMs float64) {
	globalManager.persistLatency.WithLabelValues(key).Observe(latencyMs)
}

// RecordPersistError counts a failed whole-collection write.
func RecordPersistError(key string) {
	globalManager.persistErrors.WithLabelValues(key).Inc()
}

// UpdatePendingWrites sets the number of collections awaiting a write.
func UpdatePendingWrites(n int) {
	globalManager.pendingWrites.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPauseTime.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
