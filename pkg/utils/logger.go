package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Logger provides different logging levels
type Logger struct {
	debug   bool
	verbose bool
	writer  io.Writer // Where to write logs (os.Stdout by default)
}

// NewLogger creates a new logger with the specified levels
func NewLogger(debug, verbose bool) *Logger {
	return &Logger{
		debug:   debug,
		verbose: verbose,
		writer:  os.Stdout,
	}
}

// NewLoggerWithFile creates a new logger that writes to both stdout and a file
func NewLoggerWithFile(debug, verbose bool, logFilePath string) (*Logger, error) {
	if err := EnsureDirForFile(logFilePath); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", logFilePath, err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
	}

	return &Logger{
		debug:   debug,
		verbose: verbose,
		writer:  io.MultiWriter(os.Stdout, logFile),
	}, nil
}

// Info logs informational messages (always shown)
func (l *Logger) Info(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(l.writer, "[%s] INFO: %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Debug logs debug messages (only if debug enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.debug {
		timestamp := time.Now().Format("15:04:05")
		fmt.Fprintf(l.writer, "[%s] DEBUG: %s\n", timestamp, fmt.Sprintf(format, args...))
	}
}

// Verbose logs verbose messages (only if verbose enabled)
func (l *Logger) Verbose(format string, args ...interface{}) {
	if l.verbose {
		timestamp := time.Now().Format("15:04:05")
		fmt.Fprintf(l.writer, "[%s] VERBOSE: %s\n", timestamp, fmt.Sprintf(format, args...))
	}
}

// Error logs error messages (always shown)
func (l *Logger) Error(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(l.writer, "[%s] ERROR: %s\n", timestamp, fmt.Sprintf(format, args...))
}
