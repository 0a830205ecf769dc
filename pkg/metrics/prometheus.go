// Package metrics provides Prometheus metrics for the modelgate service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// confidenceBuckets spread over the estimator's [0,1] output range.
var confidenceBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 1.0}

// Manager manages all Prometheus metrics for the modelgate service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Prediction metrics - the business core
	predictionsTotal      prometheus.Counter
	predictionsByStrategy *prometheus.CounterVec
	inferenceLatency      prometheus.Histogram
	confidenceObserved    prometheus.Histogram
	confidenceHistorySize prometheus.Gauge
	strategyFallbacks     prometheus.Counter

	// Retrain / lifecycle metrics
	modelVersion  prometheus.Gauge
	retrainsTotal prometheus.Counter

	// Governance metrics
	registryOps    *prometheus.CounterVec
	registryModels prometheus.Gauge
	auditLogSize   prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	validationFailures  prometheus.Counter
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "modelgate",
		subsystem:        "inference",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of predictions served",
	})

	m.predictionsByStrategy = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "predictions_by_strategy_total",
			Help:      "Total number of predictions per scoring strategy",
		},
		[]string{"strategy"},
	)

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_milliseconds",
		Help:      "Histogram of strategy inference latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.confidenceObserved = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "confidence_score",
		Help:      "Distribution of confidence scores over served predictions",
		Buckets:   confidenceBuckets,
	})

	m.confidenceHistorySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "confidence_history_size",
		Help:      "Current length of the rolling confidence history",
	})

	m.strategyFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "strategy_fallbacks_total",
		Help:      "Total number of requests that fell back to the default strategy",
	})

	m.modelVersion = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_version",
		Help:      "Current model version served by the gateway",
	})

	m.retrainsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "retrains_total",
		Help:      "Total number of retrain operations",
	})

	m.registryOps = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Total number of registry transitions by event kind",
		},
		[]string{"event"},
	)

	m.registryModels = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "registry",
		Name:      "models",
		Help:      "Number of model versions in the registry",
	})

	m.auditLogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "registry",
		Name:      "audit_log_size",
		Help:      "Number of events in the append-only audit log",
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

	m.validationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Total number of requests rejected by input validation",
	})

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordPrediction increments the prediction counters for a strategy.
func RecordPrediction(strategy string) {
	globalManager.predictionsTotal.Inc()
	globalManager.predictionsByStrategy.WithLabelValues(strategy).Inc()
}

// RecordInferenceLatency records strategy inference latency in milliseconds.
func RecordInferenceLatency(latencyMs float64) {
	globalManager.inferenceLatency.Observe(latencyMs)
}

// ObserveConfidence records a confidence score.
func ObserveConfidence(score float64) {
	globalManager.confidenceObserved.Observe(score)
}

// UpdateConfidenceHistorySize sets the rolling history length.
func UpdateConfidenceHistorySize(size int) {
	globalManager.confidenceHistorySize.Set(float64(size))
}

// RecordStrategyFallback increments the default-strategy fallback counter.
func RecordStrategyFallback() {
	globalManager.strategyFallbacks.Inc()
}

// UpdateModelVersion sets the current model version gauge.
func UpdateModelVersion(version int) {
	globalManager.modelVersion.Set(float64(version))
}

// RecordRetrain increments the retrain counter.
func RecordRetrain() {
	globalManager.retrainsTotal.Inc()
}

// RecordRegistryOp increments the registry transition counter for an event kind.
func RecordRegistryOp(event string) {
	globalManager.registryOps.WithLabelValues(event).Inc()
}

// UpdateRegistryModels sets the registered model count.
func UpdateRegistryModels(count int) {
	globalManager.registryModels.Set(float64(count))
}

// UpdateAuditLogSize sets the audit log length.
func UpdateAuditLogSize(size int) {
	globalManager.auditLogSize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordValidationFailure increments the validation failure counter.
func RecordValidationFailure() {
	globalManager.validationFailures.Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
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
