// Package metrics provides Prometheus metrics for the gradeboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeAccepted = "accepted"
)

// Manager manages all Prometheus metrics for the gradeboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Submission pipeline
	submissions      *prometheus.CounterVec
	recordsExtracted prometheus.Counter
	extractLatency   prometheus.Histogram

	// Record store and fingerprint log
	recordsAppended     prometheus.Counter
	recordsTotal        prometheus.Gauge
	fingerprintsTracked prometheus.Gauge
	storeAppendLatency  prometheus.Histogram
	storeLoadLatency    prometheus.Histogram

	// Aggregation
	summaryBuildLatency prometheus.Histogram
	groupsTotal         prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "gradeboard",
		subsystem:        "grades",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(
		m.counterOpts("submissions_total", "Total number of submissions by outcome"),
		[]string{"outcome"},
	)
	m.recordsExtracted = auto.NewCounter(m.counterOpts("records_extracted_total", "Total number of grade records extracted from submissions"))
	m.extractLatency = auto.NewHistogram(m.histogramOpts("extract_latency_milliseconds", "Histogram of detection plus extraction latency in milliseconds"))

	m.recordsAppended = auto.NewCounter(m.counterOpts("records_appended_total", "Total number of grade records appended to the record log"))
	m.recordsTotal = auto.NewGauge(m.gaugeOpts("records", "Number of grade records seen by the last full load"))
	m.fingerprintsTracked = auto.NewGauge(m.gaugeOpts("fingerprints", "Number of submission fingerprints tracked by the guard"))
	m.storeAppendLatency = auto.NewHistogram(m.histogramOpts("store_append_latency_milliseconds", "Histogram of record log append latency in milliseconds"))
	m.storeLoadLatency = auto.NewHistogram(m.histogramOpts("store_load_latency_milliseconds", "Histogram of full record log load latency in milliseconds"))

	m.summaryBuildLatency = auto.NewHistogram(m.histogramOpts("summary_build_latency_milliseconds", "Histogram of subject-year summary build latency in milliseconds"))
	m.groupsTotal = auto.NewGauge(m.gaugeOpts("groups", "Number of subject-year groups in the last summary"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_total", "Total number of errors by component and type"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
}

// RecordSubmission counts one submission with its outcome (accepted or a failure reason).
func RecordSubmission(outcome string) {
	globalManager.submissions.WithLabelValues(outcome).Inc()
}

// RecordRecordsExtracted adds n extracted records.
func RecordRecordsExtracted(n int) {
	globalManager.recordsExtracted.Add(float64(n))
}

// RecordExtractLatency records detection plus extraction latency in milliseconds.
func RecordExtractLatency(latencyMs float64) {
	globalManager.extractLatency.Observe(latencyMs)
}

// RecordRecordsAppended adds n appended records.
func RecordRecordsAppended(n int) {
	globalManager.recordsAppended.Add(float64(n))
}

// UpdateRecordsTotal sets the number of records seen by the last load.
func UpdateRecordsTotal(n int) {
	globalManager.recordsTotal.Set(float64(n))
}

// UpdateFingerprintsTracked sets the number of fingerprints held by the guard.
func UpdateFingerprintsTracked(n int64) {
	globalManager.fingerprintsTracked.Set(float64(n))
}

// RecordStoreAppendLatency records append latency in milliseconds.
func RecordStoreAppendLatency(latencyMs float64) {
	globalManager.storeAppendLatency.Observe(latencyMs)
}

// RecordStoreLoadLatency records full-load latency in milliseconds.
func RecordStoreLoadLatency(latencyMs float64) {
	globalManager.storeLoadLatency.Observe(latencyMs)
}

// RecordSummaryBuildLatency records summary build latency in milliseconds.
func RecordSummaryBuildLatency(latencyMs float64) {
	globalManager.summaryBuildLatency.Observe(latencyMs)
}

// UpdateGroupsTotal sets the number of groups in the last summary.
func UpdateGroupsTotal(n int) {
	globalManager.groupsTotal.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent increments the error counter for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the package-level metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
