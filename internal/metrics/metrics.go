package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frameflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frameflow_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Resource protocol metrics
var (
	ResourceResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_resource_responses_total",
			Help: "Total number of resource protocol responses by outcome",
		},
		[]string{"outcome"}, // "full", "partial", "not_satisfiable", "not_found", "io_error"
	)

	ResourceBytesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_resource_bytes_served_total",
			Help: "Total number of body bytes materialized by the resource protocol",
		},
		[]string{"outcome"},
	)

	ResourceRangeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "frameflow_resource_range_bytes",
			Help:    "Size of partial content responses in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB .. 256MiB
		},
	)

	ResourceReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frameflow_resource_read_duration_seconds",
			Help:    "Time spent reading file bytes for a resource response",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"outcome"},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors observed",
		},
		[]string{"operation"},
	)

	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frameflow_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration including retries",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)

// Probe metrics
var (
	ProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_probe_total",
			Help: "Total number of media metadata probes",
		},
		[]string{"status"},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "frameflow_probe_duration_seconds",
			Help:    "Media metadata probe duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ProbeCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_probe_cache_total",
			Help: "Probe cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// Transcoder metrics
var (
	TranscoderJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frameflow_transcoder_jobs_total",
			Help: "Total number of proxy transcoding jobs",
		},
		[]string{"status"},
	)

	TranscoderJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "frameflow_transcoder_job_duration_seconds",
			Help:    "Proxy transcoding job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	TranscoderJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frameflow_transcoder_jobs_in_progress",
			Help: "Number of proxy transcoding jobs currently running",
		},
	)
)

// System metrics
var (
	MemoryAvailableBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frameflow_memory_available_bytes",
			Help: "System memory available for new allocations",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "frameflow_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
