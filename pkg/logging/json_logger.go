package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// jsonSink is shared between a JSONLogger and the children made
// by WithFields.
type jsonSink struct {
	mu     sync.Mutex
	output io.Writer
	closed bool
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	sink   *jsonSink
	level  LogLevel
	fields map[string]any
}

// NewJSONLogger creates a JSON logger writing to w. A nil writer
// means os.Stdout.
func NewJSONLogger(w io.Writer, level LogLevel) *JSONLogger {
	if w == nil {
		w = os.Stdout
	}
	return &JSONLogger{
		sink:   &jsonSink{output: w},
		level:  level,
		fields: make(map[string]any),
	}
}

// OpenJSONLogger creates a JSON logger appending to the file at
// path, creating parent directories as needed. Close releases the
// file.
func OpenJSONLogger(path string, level LogLevel) (*JSONLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(
			"failed to create log directory: %w", err,
		)
	}
	file, err := os.OpenFile(
		path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewJSONLogger(file, level), nil
}

func (l *JSONLogger) log(level LogLevel, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    mergeFields(l.fields, fields),
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closed {
		return
	}
	fmt.Fprintln(l.sink.output, string(data))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// Debug logs a debug message.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

// WithFields returns a new Logger with additional default
// fields. The child shares the parent's output.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	return &JSONLogger{
		sink:   l.sink,
		level:  l.level,
		fields: mergeFields(l.fields, fields),
	}
}

// Close marks the logger closed and closes the output if it is a
// file other than stdout or stderr.
func (l *JSONLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.closed {
		return nil
	}
	l.sink.closed = true

	if l.sink.output == os.Stdout || l.sink.output == os.Stderr {
		return nil
	}
	if closer, ok := l.sink.output.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
