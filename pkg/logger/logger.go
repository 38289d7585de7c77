// Package logger provides the structured logging contract used across the
// storefront. Components depend on the Logger interface only; production wiring
// installs the JSON logger, tests typically use NoOp.
package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal structured logging interface.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

// ComponentAware loggers can derive a child logger tagged with a component name.
type ComponentAware interface {
	WithComponent(component string) Logger
}

// Level controls which messages a JSONLogger emits.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel maps a config string to a Level. Unknown values default to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// JSONLogger emits one JSON object per line. Safe for concurrent use.
type JSONLogger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	component string
}

// NewJSONLogger creates a production logger writing to stderr.
func NewJSONLogger(level Level) *JSONLogger {
	return &JSONLogger{out: os.Stderr, level: level}
}

// NewJSONLoggerWithWriter creates a logger with a custom writer, mainly for tests.
func NewJSONLoggerWithWriter(level Level, out io.Writer) *JSONLogger {
	return &JSONLogger{out: out, level: level}
}

// WithComponent returns a child logger that tags every entry with the component name.
func (l *JSONLogger) WithComponent(component string) Logger {
	return &JSONLogger{out: l.out, level: l.level, component: component}
}

func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(InfoLevel, "info", msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(WarnLevel, "warn", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(ErrorLevel, "error", msg, fields)
}

func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(DebugLevel, "debug", msg, fields)
}

func (l *JSONLogger) log(level Level, name, msg string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		// Errors do not marshal to anything useful by default.
		if err, ok := v.(error); ok {
			entry[k] = err.Error()
			continue
		}
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = name
	entry["message"] = msg
	if l.component != "" {
		entry["component"] = l.component
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// Drop unmarshalable fields rather than losing the message.
		data, _ = json.Marshal(map[string]interface{}{
			"time":    time.Now().UTC().Format(time.RFC3339Nano),
			"level":   name,
			"message": msg,
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(data, '\n'))
}

// NoOp discards all log output.
type NoOp struct{}

func (NoOp) Info(msg string, fields map[string]interface{})  {}
func (NoOp) Warn(msg string, fields map[string]interface{})  {}
func (NoOp) Error(msg string, fields map[string]interface{}) {}
func (NoOp) Debug(msg string, fields map[string]interface{}) {}
