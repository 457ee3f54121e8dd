package workers

import (
	"context"
	"runtime"
)

// Count returns the number of workers for a task type.
// It respects container CPU limits via GOMAXPROCS.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - above 1.0 for tasks that mostly wait on I/O
//
// A positive override (normally PROXY_WORKERS) replaces the calculation.
// The limit parameter caps the worker count; use 0 for no limit.
func Count(override int, multiplier float64, limit int) int {
	if override > 0 {
		if limit > 0 && override > limit {
			return limit
		}
		return override
	}

	// GOMAXPROCS is automatically set to container CPU limit in Go 1.19+
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(override, limit int) int {
	return Count(override, 1.0, limit)
}

// Limiter bounds the number of concurrent jobs.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter creates a Limiter admitting n concurrent jobs (minimum 1).
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	<-l.slots
}

// Size returns the maximum number of concurrent jobs.
func (l *Limiter) Size() int {
	return cap(l.slots)
}

// InUse returns the number of slots currently held. The transcoder
// publishes it as its in-progress gauge.
func (l *Limiter) InUse() int {
	return len(l.slots)
}
