// Package metrics provides Prometheus metrics for the greenroom portal service.
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

// Manager manages all Prometheus metrics for the greenroom service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core business metrics - the two computations that matter
	laneGridsComputed  prometheus.Counter
	laneGridLatency    prometheus.Histogram
	lanesPerGrid       prometheus.Histogram
	conflictScans      prometheus.Counter
	conflictScanLatency prometheus.Histogram
	conflictsFound     prometheus.Counter

	// Recompute pipeline metrics
	recomputeJobsQueued    prometheus.Counter
	recomputeJobsCoalesced prometheus.Counter
	recomputeErrors        prometheus.Counter

	// Operational health metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	workerCount      prometheus.Gauge

	// Repository metrics
	storedScenes      prometheus.Gauge
	storedRoles       prometheus.Gauge
	storedRuns        prometheus.Gauge
	storedAssignments prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
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
		namespace:        "greenroom",
		subsystem:        "portal",
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

	m.laneGridsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lane_grids_computed_total",
		Help:      "Total number of schedule lane grids computed",
	})

	m.laneGridLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lane_grid_latency_milliseconds",
		Help:      "Histogram of lane allocation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.lanesPerGrid = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lanes_per_grid",
		Help:      "Histogram of lane counts per computed grid (schedule density)",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15},
	})

	m.conflictScans = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conflict_scans_total",
		Help:      "Total number of performer conflict scans",
	})

	m.conflictScanLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conflict_scan_latency_milliseconds",
		Help:      "Histogram of conflict scan latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.conflictsFound = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conflicts_found_total",
		Help:      "Total number of performer conflicts reported (schedule quality)",
	})

	m.recomputeJobsQueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_jobs_queued_total",
		Help:      "Total number of badge recompute jobs enqueued",
	})

	m.recomputeJobsCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_jobs_coalesced_total",
		Help:      "Total number of recompute jobs skipped because one was already pending",
	})

	m.recomputeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_errors_total",
		Help:      "Total number of failed badge recomputes",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the recompute queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the recompute queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Recompute queue utilization (size / capacity)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of recompute workers",
	})

	m.storedScenes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_scenes",
		Help:      "Number of scenes in the store",
	})

	m.storedRoles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_roles",
		Help:      "Number of roles in the store",
	})

	m.storedRuns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_runs",
		Help:      "Number of runs in the store",
	})

	m.storedAssignments = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_assignments",
		Help:      "Number of role assignments in the store",
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
			Help:      "Total errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of garbage collector pause times in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Package-level helpers against the global manager.

// RecordLaneGrid records one computed lane grid and its shape.
func RecordLaneGrid(laneCount int, latencyMs float64) {
	globalManager.laneGridsComputed.Inc()
	globalManager.lanesPerGrid.Observe(float64(laneCount))
	globalManager.laneGridLatency.Observe(latencyMs)
}

// RecordConflictScan records one conflict scan and how many pairs it found.
func RecordConflictScan(found int, latencyMs float64) {
	globalManager.conflictScans.Inc()
	globalManager.conflictScanLatency.Observe(latencyMs)
	globalManager.conflictsFound.Add(float64(found))
}

// RecordRecomputeQueued counts an enqueued badge recompute job.
func RecordRecomputeQueued() {
	globalManager.recomputeJobsQueued.Inc()
}

// RecordRecomputeCoalesced counts a job skipped as already pending.
func RecordRecomputeCoalesced() {
	globalManager.recomputeJobsCoalesced.Inc()
}

// RecordRecomputeError counts a failed badge recompute.
func RecordRecomputeError() {
	globalManager.recomputeErrors.Inc()
}

// UpdateQueueSize sets the current recompute queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
	if capacity > 0 {
		globalManager.queueUtilization.Set(0)
	}
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(ratio float64) {
	globalManager.queueUtilization.Set(ratio)
}

// UpdateWorkerCount sets the number of recompute workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateStoreCounts sets the repository entity gauges.
func UpdateStoreCounts(runs, roles, scenes, assignments int) {
	globalManager.storedRuns.Set(float64(runs))
	globalManager.storedRoles.Set(float64(roles))
	globalManager.storedScenes.Set(float64(scenes))
	globalManager.storedAssignments.Set(float64(assignments))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts one HTTP error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes one GC pause duration.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
