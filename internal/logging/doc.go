// Package logging provides a simple leveled logging interface for the
// FrameFlow media host.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=true. Setting LOG_COLOR=true colors the level
// tags on a terminal. When a log directory is configured, output is mirrored
// to frameflow.log in that directory (colors are disabled while mirroring).
package logging
