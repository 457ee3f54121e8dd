package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig configures cross-origin access from the embedded web view.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// DefaultCORSConfig allows any origin. The server is bound to loopback and
// the web view's origin varies by platform (tauri://localhost,
// http://tauri.localhost, the dev server).
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		MaxAge:         600,
	}
}

// CORS returns middleware answering preflight requests and exposing the
// range headers media elements need to read.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Range", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{"Content-Range", "Accept-Ranges", "Content-Length", RequestIDHeader},
		MaxAge:         config.MaxAge,
	})
	return c.Handler
}
