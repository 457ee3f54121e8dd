package streaming

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"frameflow/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a chunk write exceeded the configured
	// deadline, typically because the client is reading too slowly.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the body
	// was fully written. This is detected via the request context.
	ErrClientGone = errors.New("client disconnected")
)

// Config configures how a response body is written.
type Config struct {
	// WriteTimeout bounds each chunk write (0 = no deadline)
	WriteTimeout time.Duration
	// ChunkSize is the size of chunks to write (0 = single write)
	ChunkSize int
	// FlushEachChunk flushes the connection after every chunk
	FlushEachChunk bool
}

// DefaultConfig returns sensible defaults for serving media bodies.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   30 * time.Second,
		ChunkSize:      64 * 1024, // 64KB chunks
		FlushEachChunk: true,
	}
}

// WriteBody writes body to w in chunks, checking ctx between chunks and
// bounding each chunk by a per-write deadline. It returns the number of
// bytes written. Headers must already have been written.
func WriteBody(ctx context.Context, w http.ResponseWriter, body []byte, config Config) (int64, error) {
	rc := http.NewResponseController(w)
	start := time.Now()
	var written int64

	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(body)
	}

	for len(body) > 0 {
		select {
		case <-ctx.Done():
			return written, contextError(ctx)
		default:
		}

		n := min(chunkSize, len(body))

		if config.WriteTimeout > 0 {
			// Writers that do not support deadlines (recorders, some
			// middleware) return ErrNotSupported; the write is then unbounded.
			if err := rc.SetWriteDeadline(time.Now().Add(config.WriteTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
				logging.Debug("Failed to set write deadline: %v", err)
			}
		}

		m, err := w.Write(body[:n])
		written += int64(m)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return written, ErrWriteTimeout
			}
			if ctx.Err() != nil {
				return written, contextError(ctx)
			}
			return written, err
		}

		body = body[n:]

		if config.FlushEachChunk {
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return written, err
			}
		}
	}

	if config.WriteTimeout > 0 {
		_ = rc.SetWriteDeadline(time.Time{})
	}

	logging.Debug("Body written: %d bytes in %v", written, time.Since(start))
	return written, nil
}

// contextError maps a finished context onto the package sentinels.
func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrWriteTimeout
	}
	return ErrClientGone
}
