// Package metrics provides Prometheus metrics for the standings service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the standings service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Standings generation
	generations        *prometheus.CounterVec
	generationErrors   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	rankedEntities     *prometheus.GaugeVec
	unrankedEntities   *prometheus.GaugeVec

	// Tournament snapshot
	snapshotLoads        prometheus.Counter
	snapshotLoadErrors   prometheus.Counter
	snapshotLoadDuration prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge
	tournamentTeams      prometheus.Gauge
	tournamentSpeakers   prometheus.Gauge
	tournamentRounds     prometheus.Gauge

	repositoryQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "standings",
		subsystem:        "tab",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.generations = auto.NewCounterVec(
		m.counter("generations_total", "Total number of standings tables generated"),
		[]string{"table"},
	)
	m.generationErrors = auto.NewCounterVec(
		m.counter("generation_errors_total", "Total number of failed standings generations"),
		[]string{"table", "reason"},
	)
	m.generationDuration = auto.NewHistogramVec(
		m.histogram("generation_duration_milliseconds", "Standings generation latency in milliseconds", m.histogramBuckets),
		[]string{"table"},
	)
	m.rankedEntities = auto.NewGaugeVec(
		m.gauge("ranked_entities", "Entities holding a rank in the last generated table"),
		[]string{"table"},
	)
	m.unrankedEntities = auto.NewGaugeVec(
		m.gauge("unranked_entities", "Entities listed without a rank in the last generated table"),
		[]string{"table"},
	)

	m.snapshotLoads = auto.NewCounter(m.counter("snapshot_loads_total", "Total number of tournament snapshots loaded"))
	m.snapshotLoadErrors = auto.NewCounter(m.counter("snapshot_load_errors_total", "Total number of rejected tournament snapshots"))
	m.snapshotLoadDuration = auto.NewHistogram(
		m.histogram("snapshot_load_duration_milliseconds", "Tournament snapshot load duration in milliseconds", m.histogramBuckets),
	)
	m.snapshotLastUnix = auto.NewGauge(m.gauge("snapshot_last_unix", "Unix timestamp of the last snapshot load"))
	m.tournamentTeams = auto.NewGauge(m.gauge("teams", "Number of teams in the loaded tournament"))
	m.tournamentSpeakers = auto.NewGauge(m.gauge("speakers", "Number of speakers in the loaded tournament"))
	m.tournamentRounds = auto.NewGauge(m.gauge("rounds", "Number of rounds in the loaded tournament"))

	m.repositoryQueryLatency = auto.NewHistogram(
		m.histogram("repository_query_latency_milliseconds", "Repository query operation latency in milliseconds", m.histogramBuckets),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordGeneration records a successful generation of a standings table.
func RecordGeneration(table string, durationMs float64, ranked, unranked int) {
	globalManager.generations.WithLabelValues(table).Inc()
	globalManager.generationDuration.WithLabelValues(table).Observe(durationMs)
	globalManager.rankedEntities.WithLabelValues(table).Set(float64(ranked))
	globalManager.unrankedEntities.WithLabelValues(table).Set(float64(unranked))
}

// RecordGenerationError records a failed generation. reason is a short
// classification such as "configuration" or "missing_data".
func RecordGenerationError(table, reason string) {
	globalManager.generationErrors.WithLabelValues(table, reason).Inc()
}

// RecordSnapshotLoad records a tournament snapshot being published.
func RecordSnapshotLoad(durationMs float64, unix int64, teams, speakers, rounds int) {
	globalManager.snapshotLoads.Inc()
	globalManager.snapshotLoadDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(unix))
	globalManager.tournamentTeams.Set(float64(teams))
	globalManager.tournamentSpeakers.Set(float64(speakers))
	globalManager.tournamentRounds.Set(float64(rounds))
}

// RecordSnapshotLoadError records a rejected tournament snapshot.
func RecordSnapshotLoadError() {
	globalManager.snapshotLoadErrors.Inc()
}

// RecordRepositoryQueryLatency records repository query latency in milliseconds.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
