package protocol

import (
	"context"
	"net/http"
	"strconv"

	"frameflow/internal/streaming"
)

// NotFoundMessage is the body of every NotFound response.
const NotFoundMessage = "File not found"

// OutcomeKind enumerates the terminal states of a request.
type OutcomeKind int

const (
	NotFound OutcomeKind = iota
	IoError
	FullBody
	PartialBody
	RangeNotSatisfiable
)

// String returns the metrics label for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case IoError:
		return "io_error"
	case FullBody:
		return "full"
	case PartialBody:
		return "partial"
	case RangeNotSatisfiable:
		return "not_satisfiable"
	default:
		return "unknown"
	}
}

// FileInfo describes the file behind a response.
type FileInfo struct {
	Length   uint64
	MimeType string
}

// Outcome is a fully materialized response. Info is set for FullBody,
// PartialBody and RangeNotSatisfiable; Range only for PartialBody.
type Outcome struct {
	Kind  OutcomeKind
	Info  FileInfo
	Range ByteRange
	Body  []byte
}

func notFound() *Outcome {
	return &Outcome{Kind: NotFound, Body: []byte(NotFoundMessage)}
}

func ioError(err error) *Outcome {
	return &Outcome{Kind: IoError, Body: []byte(err.Error())}
}

// Status returns the HTTP status code for the outcome.
func (o *Outcome) Status() int {
	switch o.Kind {
	case NotFound:
		return http.StatusNotFound
	case FullBody:
		return http.StatusOK
	case PartialBody:
		return http.StatusPartialContent
	case RangeNotSatisfiable:
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

// Header returns the response headers for the outcome.
func (o *Outcome) Header() http.Header {
	h := http.Header{}

	switch o.Kind {
	case FullBody:
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Content-Type", o.Info.MimeType)
		h.Set("Content-Length", strconv.FormatUint(o.Info.Length, 10))
		h.Set("Accept-Ranges", "bytes")
	case PartialBody:
		h.Set("Content-Type", o.Info.MimeType)
		h.Set("Content-Range", "bytes "+strconv.FormatUint(o.Range.Start, 10)+"-"+
			strconv.FormatUint(o.Range.End, 10)+"/"+strconv.FormatUint(o.Info.Length, 10))
		h.Set("Content-Length", strconv.FormatUint(o.Range.Length(), 10))
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Accept-Ranges", "bytes")
	case RangeNotSatisfiable:
		h.Set("Content-Range", "bytes */"+strconv.FormatUint(o.Info.Length, 10))
	case NotFound, IoError:
		h.Set("Content-Type", "text/plain; charset=utf-8")
		h.Set("X-Content-Type-Options", "nosniff")
	}

	return h
}

// WriteTo writes the status line, headers and body to w. The body is
// written through streaming.WriteBody so a disconnected client stops the
// write early.
func (o *Outcome) WriteTo(ctx context.Context, w http.ResponseWriter, config streaming.Config) (int64, error) {
	dst := w.Header()
	for k, v := range o.Header() {
		dst[k] = v
	}
	w.WriteHeader(o.Status())

	if len(o.Body) == 0 {
		return 0, nil
	}
	return streaming.WriteBody(ctx, w, o.Body, config)
}
