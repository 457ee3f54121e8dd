package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"frameflow/internal/logging"
)

// RetryConfig bounds how often and how slowly a stale handle is retried.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig is 3 retries backing off from 50ms to 500ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isNFSStaleError reports whether err wraps ESTALE.
func isNFSStaleError(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// nextBackoff doubles d, capped at limit.
func nextBackoff(d, limit time.Duration) time.Duration {
	return min(d*2, limit)
}

// withRetry runs fn until it succeeds, fails with a non-ESTALE error, or
// config.MaxRetries retries have been spent.
func withRetry[T any](op, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	obs := observe()
	if obs != nil {
		defer func(start time.Time) {
			obs.ObserveDuration(op, time.Since(start).Seconds())
		}(time.Now())
	}

	var (
		zero    T
		lastErr error
		backoff = config.InitialBackoff
	)
	for attempt := 0; ; attempt++ {
		result, err := fn()
		switch {
		case err == nil:
			if attempt > 0 {
				logging.Info("%s of %s recovered after %d stale handle retries", op, path, attempt)
				if obs != nil {
					obs.ObserveRetrySuccess(op)
				}
			}
			return result, nil
		case !isNFSStaleError(err):
			return zero, err
		}

		lastErr = err
		if obs != nil {
			obs.ObserveStaleError(op)
		}
		if attempt >= config.MaxRetries {
			break
		}
		if obs != nil {
			obs.ObserveRetryAttempt(op)
		}
		logging.Debug("stale handle on %s %s, retry %d/%d in %v",
			op, path, attempt+1, config.MaxRetries, backoff)
		time.Sleep(backoff)
		backoff = nextBackoff(backoff, config.MaxBackoff)
	}

	logging.Warn("%s of %s still stale after %d retries: %v", op, path, config.MaxRetries, lastErr)
	if obs != nil {
		obs.ObserveRetryFailure(op)
	}
	return zero, lastErr
}

// StatWithRetry performs os.Stat with retry logic for NFS stale file handle errors
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// OpenWithRetry performs os.Open with retry logic for NFS stale file handle errors
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, func() (*os.File, error) {
		return os.Open(path)
	})
}

// WriteFileWithRetry performs os.WriteFile (create or truncate, mode 0644)
// with retry logic for NFS stale file handle errors.
func WriteFileWithRetry(path string, content []byte, config RetryConfig) error {
	_, err := withRetry("write", path, config, func() (struct{}, error) {
		return struct{}{}, os.WriteFile(path, content, 0o644)
	})
	return err
}
