package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"frameflow/internal/logging"
	"frameflow/internal/metrics"
	"frameflow/internal/workers"
)

// DefaultBinary is the ffmpeg executable looked up on PATH.
const DefaultBinary = "ffmpeg"

// ProxyHeight is the frame height of generated proxies. Width follows the
// source aspect ratio, rounded to an even number.
const ProxyHeight = 540

// Transcoder generates low-resolution editing proxies with ffmpeg.
type Transcoder struct {
	binary    string
	limiter   *workers.Limiter
	processes map[string]*encodeJob
	processMu sync.Mutex
	slotMu    sync.Mutex
}

// encodeJob is a running ffmpeg process. Jobs are keyed by a random ID so
// two encodes to the same output are tracked independently.
type encodeJob struct {
	cmd        *exec.Cmd
	outputPath string
}

// New creates a Transcoder running binary (DefaultBinary when empty) with at
// most maxJobs concurrent encodes.
func New(binary string, maxJobs int) *Transcoder {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Transcoder{
		binary:    binary,
		limiter:   workers.NewLimiter(maxJobs),
		processes: make(map[string]*encodeJob),
	}
}

// MaxJobs returns the concurrent encode limit.
func (t *Transcoder) MaxJobs() int {
	return t.limiter.Size()
}

// ProxyArgs returns the ffmpeg arguments for a proxy encode: 540p H.264 at
// the fastest preset, overwriting outputPath.
func ProxyArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-vf", "scale=-2:" + strconv.Itoa(ProxyHeight),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-crf", "28",
		"-y",
		outputPath,
	}
}

// GenerateProxy encodes inputPath into outputPath and returns outputPath.
// It waits for a free job slot first; canceling ctx abandons the wait or
// kills a running encode.
func (t *Transcoder) GenerateProxy(ctx context.Context, inputPath, outputPath string) (string, error) {
	if err := t.limiter.Acquire(ctx); err != nil {
		metrics.TranscoderJobsTotal.WithLabelValues("canceled").Inc()
		return "", err
	}
	t.reportSlots(nil)
	defer t.reportSlots(t.limiter.Release)

	start := time.Now()
	err := t.run(ctx, inputPath, outputPath)
	metrics.TranscoderJobDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.TranscoderJobsTotal.WithLabelValues("success").Inc()
		logging.Info("Generated proxy %s from %s in %v", outputPath, inputPath, time.Since(start).Round(time.Millisecond))
		return outputPath, nil
	case ctx.Err() != nil:
		metrics.TranscoderJobsTotal.WithLabelValues("canceled").Inc()
		return "", ctx.Err()
	default:
		metrics.TranscoderJobsTotal.WithLabelValues("error").Inc()
		return "", err
	}
}

// reportSlots runs release, if any, and publishes the number of held job
// slots. Both happen under slotMu so the last report wins.
func (t *Transcoder) reportSlots(release func()) {
	t.slotMu.Lock()
	defer t.slotMu.Unlock()
	if release != nil {
		release()
	}
	metrics.TranscoderJobsInProgress.Set(float64(t.limiter.InUse()))
}

func (t *Transcoder) run(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, t.binary, ProxyArgs(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to execute ffmpeg: %w", err)
	}

	id := uuid.NewString()
	t.processMu.Lock()
	t.processes[id] = &encodeJob{cmd: cmd, outputPath: outputPath}
	t.processMu.Unlock()

	defer func() {
		t.processMu.Lock()
		delete(t.processes, id)
		t.processMu.Unlock()
	}()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logging.Debug("ffmpeg stderr for %s: %s", inputPath, stderr.String())
			return fmt.Errorf("ffmpeg error: %s", stderr.String())
		}
		return fmt.Errorf("failed to execute ffmpeg: %w", err)
	}

	return nil
}

// Active returns the number of running encodes.
func (t *Transcoder) Active() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

// Cleanup stops all active encodes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for id, job := range t.processes {
		if job.cmd.Process != nil {
			logging.Info("Killing proxy encode %s for: %s", id, job.outputPath)
			if err := job.cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill proxy encode for %s: %v", job.outputPath, err)
			}
		}
	}
}
