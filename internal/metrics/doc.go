// Package metrics provides Prometheus instrumentation for the FrameFlow media host.
//
// All metrics are registered with promauto on the default registry and are
// prefixed with "frameflow_". They are exposed by the metrics server started
// in main when METRICS_ENABLED is true.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests currently being processed
//
// ## Resource Protocol Metrics
//
//   - ResourceResponsesTotal: Counter of frameflow:// responses by outcome
//     (full, partial, not_satisfiable, not_found, io_error)
//   - ResourceBytesServed: Counter of body bytes materialized by outcome
//   - ResourceRangeBytes: Histogram of partial response sizes
//   - ResourceReadDuration: Histogram of file read time by outcome
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer implementation in observer.go,
// labelled by operation (stat, open, write):
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures
//   - FilesystemStaleErrors
//   - FilesystemOperationDuration
//
// ## Probe and Transcoder Metrics
//
//   - ProbeTotal / ProbeDuration: ffprobe metadata lookups
//   - ProbeCacheTotal: probe cache hits and misses
//   - TranscoderJobsTotal / TranscoderJobDuration / TranscoderJobsInProgress:
//     proxy generation jobs
//
// ## System Metrics
//
//   - MemoryAvailableBytes: sampled periodically by Collector
//   - AppInfo: constant 1 labelled with version, commit and Go version
//
// # Usage
//
//	metrics.InitializeMetrics()
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	collector := metrics.NewCollector(metrics.MemoryReaderFunc(memory.Available), time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
