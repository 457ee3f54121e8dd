package protocol

import (
	"errors"
	"net/http"
	"strings"

	"frameflow/internal/logging"
	"frameflow/internal/streaming"
)

// RoutePrefix is the loopback HTTP path under which frameflow:// identifiers
// are served. GET /frameflow/<escaped path> maps to frameflow://<escaped path>.
const RoutePrefix = "/" + Scheme + "/"

// QueryRoute carries the identifier in the raw query instead:
// GET /frameflow?uri=<identifier>. net/http rejects request paths with
// malformed escapes before any handler runs but leaves the query
// untouched, so every identifier reaches DecodePath through this form.
const QueryRoute = "/" + Scheme

// QueryKey names the query parameter read on QueryRoute. Everything after
// "uri=" is the identifier, including any '&' or '='.
const QueryKey = "uri"

// Handler serves frameflow:// resources over HTTP.
type Handler struct {
	responder *Responder
	stream    streaming.Config
}

// NewHandler creates a Handler backed by responder.
func NewHandler(responder *Responder, stream streaming.Config) *Handler {
	return &Handler{responder: responder, stream: stream}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := DecodePath(RawURI(r))
	rangeHeader, hasRange := rangeHeaderValue(r.Header)

	outcome := h.responder.Respond(path, rangeHeader, hasRange)
	if r.Method == http.MethodHead {
		outcome.Body = nil
	}

	if _, err := outcome.WriteTo(r.Context(), w, h.stream); err != nil {
		if errors.Is(err, streaming.ErrClientGone) {
			logging.Debug("Client went away while serving %s", path)
			return
		}
		logging.Warn("Failed to write response for %s: %v", path, err)
	}
}

// RawURI rebuilds the raw frameflow:// identifier from a routed request,
// keeping the client's percent-encoding intact. On QueryRoute the identifier
// is taken verbatim from the raw query, with or without the scheme prefix.
func RawURI(r *http.Request) string {
	if r.URL.Path == QueryRoute {
		raw, _ := strings.CutPrefix(r.URL.RawQuery, QueryKey+"=")
		if strings.HasPrefix(raw, SchemePrefix) {
			return raw
		}
		return SchemePrefix + raw
	}
	return SchemePrefix + strings.TrimPrefix(r.URL.EscapedPath(), RoutePrefix)
}

// rangeHeaderValue returns the first Range header. Values containing bytes
// outside visible ASCII are treated as absent.
func rangeHeaderValue(h http.Header) (string, bool) {
	values := h.Values("Range")
	if len(values) == 0 {
		return "", false
	}
	v := values[0]
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\t' && (c < 0x20 || c > 0x7e) {
			return "", false
		}
	}
	return v, true
}
