package metrics

// Outcome labels used by the resource protocol.
var outcomeLabels = []string{"full", "partial", "not_satisfiable", "not_found", "io_error"}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, outcome := range outcomeLabels {
		ResourceResponsesTotal.WithLabelValues(outcome)
		ResourceBytesServed.WithLabelValues(outcome)
	}
	for _, outcome := range []string{"full", "partial"} {
		ResourceReadDuration.WithLabelValues(outcome)
	}

	for _, op := range []string{"stat", "open", "write"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemOperationDuration.WithLabelValues(op)
	}

	for _, status := range []string{"success", "error"} {
		ProbeTotal.WithLabelValues(status)
	}
	for _, result := range []string{"hit", "miss", "error"} {
		ProbeCacheTotal.WithLabelValues(result)
	}
	for _, status := range []string{"success", "error", "canceled"} {
		TranscoderJobsTotal.WithLabelValues(status)
	}
}
