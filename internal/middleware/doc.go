// Package middleware provides HTTP middleware for the FrameFlow media host.
//
// It includes:
//   - Request IDs (X-Request-ID), generated with google/uuid when absent
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with bounded path cardinality
//   - CORS for the embedded web view, via rs/cors
//   - gzip compression for JSON API replies
//
// Wrapping writers implement Unwrap so handlers can still reach the
// connection through http.ResponseController.
package middleware
