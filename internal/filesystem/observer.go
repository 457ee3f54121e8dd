package filesystem

// Observer receives retry events for the "stat", "open" and "write"
// operations. The metrics package implements it; this package cannot import
// metrics directly.
type Observer interface {
	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
	// ObserveDuration is called once per operation, retries included.
	ObserveDuration(operation string, durationSeconds float64)
}

var defaultObserver Observer

// SetObserver installs o for all subsequent operations. A nil Observer
// disables reporting.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
