package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gookit/color"
)

// LogFileName is the name of the persistent log file created in LOG_DIR.
const LogFileName = "frameflow.log"

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	mu           sync.RWMutex
	currentLevel LogLevel
	levelOnce    sync.Once
	colorize     bool
	logFile      *os.File
)

// ParseLevel maps a LOG_LEVEL value to a LogLevel. Unknown values map to
// LevelInfo and ok is false.
func ParseLevel(s string) (level LogLevel, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// initLevel initializes the log level and color mode from environment variables
func initLevel() {
	levelOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()

		colorize = isTruthy(os.Getenv("LOG_COLOR"))

		// DEBUG wins over LOG_LEVEL
		if isTruthy(os.Getenv("DEBUG")) {
			currentLevel = LevelDebug
			return
		}
		currentLevel, _ = ParseLevel(os.Getenv("LOG_LEVEL"))
	})
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLevel()
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// SetLevel overrides the level read from the environment.
func SetLevel(level LogLevel) {
	initLevel()
	mu.Lock()
	currentLevel = level
	mu.Unlock()
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// OpenLogFile starts mirroring log output into dir/frameflow.log in addition
// to stderr. The returned function closes the file and restores stderr.
func OpenLogFile(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	mu.Lock()
	logFile = f
	mu.Unlock()
	log.SetOutput(io.MultiWriter(os.Stderr, f))

	return func() error {
		log.SetOutput(os.Stderr)
		mu.Lock()
		defer mu.Unlock()
		logFile = nil
		return f.Close()
	}, nil
}

func tag(level LogLevel) string {
	mu.RLock()
	useColor := colorize && logFile == nil
	mu.RUnlock()

	t := "[" + strings.ToUpper(level.String()) + "] "
	if !useColor {
		return t
	}
	switch level {
	case LevelDebug:
		return color.Gray.Sprint(t)
	case LevelInfo:
		return color.Cyan.Sprint(t)
	case LevelWarn:
		return color.Yellow.Sprint(t)
	default:
		return color.Red.Sprint(t)
	}
}

func logf(level LogLevel, format string, args ...interface{}) {
	if GetLevel() <= level {
		log.Printf(tag(level)+format, args...)
	}
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	logf(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	logf(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	logf(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// Printf is a pass-through to log.Printf for messages that should always print
func Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
