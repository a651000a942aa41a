// Package logger provides structured JSON logging and run metrics for bom-oscars.
//
// Every log line is a single JSON object written to the configured writer
// (stderr by default) so progress output never mixes with an exported table
// written to stdout. A logger can carry base fields, typically the run id,
// that are merged into every entry it writes.
//
// Example usage:
//
//	log := logger.New(logger.LevelInfo, os.Stderr).With(logger.Fields{"run_id": id})
//	log.Info("Processing year", logger.Fields{"year": 1999})
//
//	logger.IncrCounter("rows.dropped")
//	logger.RecordTiming("fetch", duration)
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a case-insensitive level name into a Level.
// Unknown names fall back to INFO.
func ParseLevel(s string) Level {
	lvl := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[lvl]; ok {
		return lvl
	}
	if lvl == "WARNING" {
		return LevelWarn
	}
	return LevelInfo
}

// Logger provides structured logging
type Logger struct {
	mu       *sync.Mutex
	minLevel Level
	output   io.Writer
	base     Fields
	now      func() time.Time
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a logger with the given minimum level writing to output.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	if output == nil {
		output = io.Discard
	}
	return &Logger{
		mu:       &sync.Mutex{},
		minLevel: level,
		output:   output,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// With returns a child logger that adds fields to every entry.
// The child shares the parent's writer and lock.
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		mu:       l.mu,
		minLevel: l.minLevel,
		output:   l.output,
		base:     merged,
		now:      l.now,
	}
}

// SetDefault replaces the package-level logger used by Debug, Info, Warn and Error.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    l.merge(fields),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}

	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) merge(fields Fields) Fields {
	if len(l.base) == 0 {
		return fields
	}
	out := make(Fields, len(l.base)+len(fields))
	for k, v := range l.base {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
// Warnings mark recovered conditions such as a year without a listing table.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
