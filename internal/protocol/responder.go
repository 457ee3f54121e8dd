package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"time"

	"frameflow/internal/filesystem"
	"frameflow/internal/logging"
	"frameflow/internal/mediatypes"
	"frameflow/internal/metrics"
)

// Responder turns a decoded path and an optional Range header into an
// Outcome. It holds no per-request state and is safe for concurrent use.
type Responder struct {
	retry filesystem.RetryConfig
}

// NewResponder creates a Responder that retries stat and open with config.
func NewResponder(config filesystem.RetryConfig) *Responder {
	return &Responder{retry: config}
}

// Respond reads path and builds the matching Outcome. rangeHeader is
// consulted only when hasRange is true.
func (r *Responder) Respond(path, rangeHeader string, hasRange bool) *Outcome {
	start := time.Now()
	outcome := r.respond(path, rangeHeader, hasRange)
	recordOutcome(outcome, time.Since(start))

	logging.Debug("frameflow %s -> %d (%s, %d bytes)", path, outcome.Status(), outcome.Kind, len(outcome.Body))
	return outcome
}

func (r *Responder) respond(path, rangeHeader string, hasRange bool) *Outcome {
	info, err := filesystem.StatWithRetry(path, r.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notFound()
		}
		logging.Warn("Failed to stat %s: %v", path, err)
		return ioError(err)
	}

	fileInfo := FileInfo{
		Length:   uint64(max(info.Size(), 0)),
		MimeType: mediatypes.MimeTypeForPath(path),
	}

	file, err := filesystem.OpenWithRetry(path, r.retry)
	if err != nil {
		logging.Warn("Failed to open %s: %v", path, err)
		return ioError(err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close %s: %v", path, err)
		}
	}()

	resolution := ResolveRange(rangeHeader, hasRange, fileInfo.Length)

	switch resolution.Kind {
	case NotSatisfiable:
		return &Outcome{Kind: RangeNotSatisfiable, Info: fileInfo}

	case Partial:
		body, err := readRange(file, resolution.Range)
		if err != nil {
			logging.Warn("Failed to read range %d-%d of %s: %v",
				resolution.Range.Start, resolution.Range.End, path, err)
			return ioError(err)
		}
		return &Outcome{Kind: PartialBody, Info: fileInfo, Range: resolution.Range, Body: body}

	default:
		body, err := readAll(file, fileInfo.Length)
		if err != nil {
			logging.Warn("Failed to read %s: %v", path, err)
			return ioError(err)
		}
		return &Outcome{Kind: FullBody, Info: fileInfo, Body: body}
	}
}

// readRange reads exactly r.Length() bytes starting at r.Start.
func readRange(file io.ReadSeeker, r ByteRange) ([]byte, error) {
	if r.Start > math.MaxInt64 || r.Length() > math.MaxInt {
		return nil, fmt.Errorf("range %d-%d too large", r.Start, r.End)
	}

	if _, err := file.Seek(int64(r.Start), io.SeekStart); err != nil {
		return nil, err
	}

	buf := make([]byte, r.Length())
	if _, err := io.ReadFull(file, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readAll reads the remainder of file, sizing the buffer from sizeHint.
func readAll(file io.Reader, sizeHint uint64) ([]byte, error) {
	if sizeHint > math.MaxInt-bytes.MinRead {
		sizeHint = 0
	}
	buf := bytes.NewBuffer(make([]byte, 0, int(sizeHint)+bytes.MinRead))
	if _, err := buf.ReadFrom(file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordOutcome(o *Outcome, elapsed time.Duration) {
	label := o.Kind.String()
	metrics.ResourceResponsesTotal.WithLabelValues(label).Inc()

	switch o.Kind {
	case FullBody:
		metrics.ResourceBytesServed.WithLabelValues(label).Add(float64(len(o.Body)))
		metrics.ResourceReadDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	case PartialBody:
		metrics.ResourceBytesServed.WithLabelValues(label).Add(float64(len(o.Body)))
		metrics.ResourceRangeBytes.Observe(float64(len(o.Body)))
		metrics.ResourceReadDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	}
}
