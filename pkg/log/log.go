// Package log provides a simple leveled logger built on top of the standard
// library's slog package.
//
// By default, it configures a global logger writing JSON (or text if
// LOG_FORMAT=text) to os.Stderr. The log level is controlled globally via
// SetLevel() and is typically initialized from flags in cmd/amifind.
//
// Use SetOutput() to redirect log output, primarily for testing. It replaces
// the default os.Stderr writer and returns a function to restore it.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	logger        *slog.Logger
	globalLeveler           = &slog.LevelVar{} // dynamic level changes
	outputWriter  io.Writer = os.Stderr

	// ErrInvalidLogLevel indicates an invalid log level string was provided.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")
)

// init installs a default INFO-level logger. The definitive level is set by
// the root command's PersistentPreRunE before any command logic runs.
func init() {
	globalLeveler.Set(slog.LevelInfo)
	configureLogger()
}

// configureLogger rebuilds the logger from the current global state
// (outputWriter and globalLeveler). It does not read flags itself.
func configureLogger() {
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	opts := &slog.HandlerOptions{Level: globalLeveler}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(outputWriter, opts)
	} else {
		handler = slog.NewJSONHandler(outputWriter, opts)
	}
	logger = slog.New(handler)
}

// SetOutput changes the output destination for the logger. It returns a
// function that restores the previous writer. Intended for testing.
func SetOutput(w io.Writer) (restore func()) {
	originalWriter := outputWriter
	outputWriter = w
	configureLogger()
	return func() {
		outputWriter = originalWriter
		configureLogger()
	}
}

// Debug logs a debug message with optional key-value pairs
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Logger returns the underlying slog.Logger
func Logger() *slog.Logger {
	return logger
}

// SetLevel changes the log level at runtime using the global LevelVar.
func SetLevel(level Level) {
	globalLeveler.Set(slog.Level(level))
}

// CurrentLevel returns the current slog.Level from the LevelVar
func CurrentLevel() slog.Level {
	return globalLeveler.Level()
}

// Level is a log level type compatible with slog.Level, providing a stable
// API for the rest of the codebase.
type Level int8

// Log level definitions.
const (
	// LevelDebug defines the debug log level.
	LevelDebug Level = Level(slog.LevelDebug)
	// LevelInfo defines the info log level.
	LevelInfo Level = Level(slog.LevelInfo)
	// LevelWarn defines the warn log level.
	LevelWarn Level = Level(slog.LevelWarn)
	// LevelError defines the error log level.
	LevelError Level = Level(slog.LevelError)
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string and returns the corresponding Level.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING": // Accept both forms
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLogLevel, levelStr)
	}
}
