// Package metrics provides Prometheus metrics for the scheduling service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Planner metrics
	plansBuilt        prometheus.Counter
	plansRejected     prometheus.Counter
	planBuildLatency  prometheus.Histogram
	entriesScheduled  prometheus.Counter
	blockedDates      prometheus.Counter
	duplicateRequests prometheus.Counter

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter

	// Worker metrics
	workerActive         prometheus.Gauge
	workerProcessLatency prometheus.Histogram
	workerErrors         prometheus.Counter

	// Store metrics
	storedPlans prometheus.Gauge

	// System metrics
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPause     prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry so default Go collectors never
// pollute /healthz output.
var (
	//nolint:gochecknoglobals // singleton metrics manager
	globalManager *Manager

	//nolint:gochecknoglobals // singleton registry
	customRegistry = prometheus.NewRegistry()
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "socialstudio",
		subsystem:        "scheduler",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.plansBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_built_total",
		Help: "Total number of schedule plans built successfully",
	})
	m.plansRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plans_rejected_total",
		Help: "Total number of plan requests rejected by validation",
	})
	m.planBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "plan_build_latency_milliseconds",
		Help:    "Histogram of plan build latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.entriesScheduled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "entries_scheduled_total",
		Help: "Total number of calendar entries placed by the allocator",
	})
	m.blockedDates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "blocked_dates_total",
		Help: "Total number of in-range dates skipped because they were reserved",
	})
	m.duplicateRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "duplicate_requests_total",
		Help: "Total number of plan submissions deduplicated by request id",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of jobs waiting in the plan queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the plan queue",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Plan queue fill ratio between 0 and 1",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_total",
		Help: "Total number of jobs enqueued",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeue_total",
		Help: "Total number of jobs dequeued",
	})
	m.queueEnqueueErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Total number of enqueue attempts rejected (closed or full)",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_active_count",
		Help: "Number of plan workers running",
	})
	m.workerProcessLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_milliseconds",
		Help:    "Histogram of end-to-end job processing latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total number of jobs that failed in a worker",
	})

	m.storedPlans = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "stored_plans",
		Help: "Number of plan records currently held in the store",
	})

	m.systemMemoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current heap allocation in bytes",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines",
	})
	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "system_gc_pause_milliseconds",
		Help:    "Histogram of average GC pause time in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "Histogram of HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry exposes the gatherer backing the custom registry for the
// /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording against the global manager.

func RecordPlanBuilt(latencyMS float64, entries, blocked int) {
	if !globalManager.enabled {
		return
	}
	globalManager.plansBuilt.Inc()
	globalManager.planBuildLatency.Observe(latencyMS)
	globalManager.entriesScheduled.Add(float64(entries))
	globalManager.blockedDates.Add(float64(blocked))
}

func RecordPlanRejected() {
	if !globalManager.enabled {
		return
	}
	globalManager.plansRejected.Inc()
}

func RecordDuplicateRequest() {
	if !globalManager.enabled {
		return
	}
	globalManager.duplicateRequests.Inc()
}

func RecordQueueEnqueue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueues.Inc()
}

func RecordQueueDequeue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueDequeues.Inc()
}

func RecordQueueEnqueueError() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrs.Inc()
}

func UpdateQueueSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

func UpdateQueueCapacity(capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

func UpdateQueueUtilization(ratio float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueUtilization.Set(ratio)
}

func UpdateWorkerActiveCount(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerActive.Set(float64(n))
}

func RecordWorkerProcessingLatency(latencyMS float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerProcessLatency.Observe(latencyMS)
}

func RecordWorkerError() {
	if !globalManager.enabled {
		return
	}
	globalManager.workerErrors.Inc()
}

func UpdateStoredPlans(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storedPlans.Set(float64(n))
}

func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryBytes.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutines.Set(float64(n))
}

func RecordSystemGCPauseTime(pauseMS float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPause.Observe(pauseMS)
}

func RecordHTTPRequest(endpoint, method, status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, latencyMS float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(latencyMS)
}
