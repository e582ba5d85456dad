package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config log level to a charm level, defaulting to info.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// RunStarted logs the start of a batch run
func (l *Logger) RunStarted(runID string, files int) {
	l.Info("run started",
		"run_id", runID,
		"files", files)
}

// RunCompleted logs the completion of a batch run
func (l *Logger) RunCompleted(runID string, processed, failed int, duration time.Duration) {
	l.Info("run completed",
		"run_id", runID,
		"processed", processed,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// DocumentFormatted logs a document that went through the formatter
func (l *Logger) DocumentFormatted(path string, changed bool) {
	l.Debug("document formatted",
		"file", path,
		"changed", changed)
}

// DocumentSkipped logs when a document is skipped
func (l *Logger) DocumentSkipped(path, reason string) {
	l.Debug("document skipped",
		"file", path,
		"reason", reason)
}

// DocumentError logs an error for a specific document
func (l *Logger) DocumentError(path string, err error) {
	l.Error("document error",
		"file", path,
		"error", err)
}

// TemplatesExpanded logs a macro expansion pass
func (l *Logger) TemplatesExpanded(path string, templates int) {
	l.Debug("templates expanded",
		"file", path,
		"templates", templates)
}

// CacheError logs a format cache failure
func (l *Logger) CacheError(operation string, err error) {
	l.Warn("cache error",
		"operation", operation,
		"error", err)
}

// CachePruned logs cache entries dropped because their documents are gone
func (l *Logger) CachePruned(paths []string) {
	l.Debug("cache pruned",
		"entries", len(paths),
		"files", paths)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, maxColumns, workers int) {
	l.Debug("config loaded",
		"path", path,
		"max_columns", maxColumns,
		"workers", workers)
}

// WatchStarted logs the start of watch mode
func (l *Logger) WatchStarted(pid int, interval time.Duration, paths []string) {
	l.Info("watch started",
		"pid", pid,
		"interval", interval,
		"paths", paths)
}

// WatchStopped logs a clean watch shutdown
func (l *Logger) WatchStopped(pid int) {
	l.Info("watch stopped",
		"pid", pid)
}
