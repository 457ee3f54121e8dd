/*
Package streaming writes response bodies with client-disconnect detection and
per-write deadlines.

# Overview

Media responses can be large, and a slow or vanished client should not pin a
server goroutine indefinitely. WriteBody splits a body into chunks, checks the
request context between chunks and arms a write deadline on the underlying
connection for each chunk through http.ResponseController.

# Usage

	w.WriteHeader(http.StatusPartialContent)
	n, err := streaming.WriteBody(r.Context(), w, body, streaming.DefaultConfig())
	if err != nil && !errors.Is(err, streaming.ErrClientGone) {
		logging.Warn("Body write failed after %d bytes: %v", n, err)
	}

# Middleware

http.ResponseController reaches the connection by calling Unwrap on wrapping
writers. Middleware that wraps http.ResponseWriter should implement
Unwrap() http.ResponseWriter so deadlines and flushes reach the connection;
writers that do not support them degrade to plain unbounded writes.

# Errors

  - ErrClientGone: the request context was canceled before the body finished
  - ErrWriteTimeout: a chunk write missed its deadline, or the context deadline passed
*/
package streaming
