/*
Package workers sizes and bounds worker concurrency in containerized
environments.

# Sizing

runtime.NumCPU() reports host CPUs and ignores cgroup limits, while
GOMAXPROCS follows the container CPU limit (Go 1.19+). Count and its
helpers derive worker counts from GOMAXPROCS:

	// CPU-bound work such as ffmpeg proxy encodes, at most 4
	n := workers.ForCPU(cfg.ProxyWorkers, 4)

A positive override (PROXY_WORKERS) replaces the calculation but is still
capped by the limit:

	env:
	- name: PROXY_WORKERS
	  value: "2"

# Limiting

Limiter is a counting semaphore. Acquire honors context cancellation so a
queued job stops waiting when its request goes away:

	limiter := workers.NewLimiter(n)
	if err := limiter.Acquire(ctx); err != nil {
		return err
	}
	defer limiter.Release()
*/
package workers
