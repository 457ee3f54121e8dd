// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] reads a .env file (if present) with godotenv, unmarshals the
// environment into [Config] with go-env and validates it with
// go-playground/validator. Variables already set in the environment win over
// the .env file.
//
//   - BIND_ADDR: Listen IP (default: 127.0.0.1; keep it on loopback)
//   - PORT: HTTP server port (default: 8765)
//   - METRICS_PORT: Prometheus metrics server port (default: 9765)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_DIR: Directory for frameflow.log (default: stderr only)
//   - LOG_STATIC_FILES: Log /frameflow/ media requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - PROXY_WORKERS: Concurrent proxy encodes (default: one per CPU, max 4)
//   - FFMPEG_PATH / FFPROBE_PATH: Media tool binaries (default: from PATH)
//   - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
//   - MEMORY_SAMPLE_INTERVAL: Memory metric sampling period (default: 30s)
//   - MEMORY_LIMIT / MEMORY_RATIO / GOMEMLIMIT: see package memory
//
// Invalid values are reported together, by variable name.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogMemoryConfig]: Memory limit configuration
//   - [LogToolsInit]: FFmpeg and FFprobe availability
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownComplete]: Graceful shutdown
package startup
