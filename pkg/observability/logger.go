// Package observability provides structured logging, tracing, metrics and
// health endpoints that a caller can wrap around this module's higher-level
// operations (key generation, encapsulation, decapsulation, self-tests).
// pkg/mlkem and pkg/selftest do not log, trace or record metrics themselves;
// the only built-in hook is selftest.HealthCheckFunc, a "post" health
// check. Fields passed to the logger are expected to be public, size, and
// timing-irrelevant (parameter set name, operation name, pass/fail),
// matching this codebase's logging discipline around session and
// handshake state.
//
// Grounded on pkg/metrics/logger.go: same Level/Fields/Format/Logger
// shape and functional-options constructor, trimmed to the fields this
// module actually has reason to log.
package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

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
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level string, defaulting to LevelInfo for anything
// unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "SILENT", "OFF", "NONE":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// Fields is a set of structured log fields.
type Fields map[string]interface{}

// Format specifies the log output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Logger provides structured, leveled logging.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	level    Level
	format   Format
	fields   Fields
	name     string
	timeFunc func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option { return func(l *Logger) { l.out = w } }

// WithLevel sets the minimum level that is emitted.
func WithLevel(level Level) Option { return func(l *Logger) { l.level = level } }

// WithFormat sets the output format.
func WithFormat(format Format) Option { return func(l *Logger) { l.format = format } }

// WithFields sets default fields attached to every entry.
func WithFields(fields Fields) Option { return func(l *Logger) { l.fields = fields } }

// WithName sets the logger's name.
func WithName(name string) Option { return func(l *Logger) { l.name = name } }

// NewLogger constructs a Logger with the given options, defaulting to
// stdout, LevelInfo, and FormatText.
func NewLogger(opts ...Option) *Logger {
	l := &Logger{
		out:      os.Stdout,
		level:    LevelInfo,
		format:   FormatText,
		fields:   make(Fields),
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// With returns a derived logger carrying additional default fields.
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, level: l.level, format: l.format, fields: merged, name: l.name, timeFunc: l.timeFunc}
}

// Named returns a derived logger with name appended under the current
// name, dot-separated.
func (l *Logger) Named(name string) *Logger {
	newName := name
	if l.name != "" {
		newName = l.name + "." + name
	}
	return &Logger{out: l.out, level: l.level, format: l.format, fields: l.fields, name: newName, timeFunc: l.timeFunc}
}

// SetLevel changes the minimum emitted level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, fields...) }

func (l *Logger) log(level Level, msg string, extraFields ...Fields) {
	if level < l.level {
		return
	}

	all := make(Fields, len(l.fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for _, f := range extraFields {
		for k, v := range f {
			all[k] = v
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == FormatJSON {
		l.writeJSON(level, msg, all)
	} else {
		l.writeText(level, msg, all)
	}
}

func (l *Logger) writeJSON(level Level, msg string, fields Fields) {
	entry := make(map[string]interface{}, len(fields)+4)
	entry["time"] = l.timeFunc().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.name != "" {
		entry["logger"] = l.name
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out, "LOG_ERROR: %v\n", err)
		return
	}
	l.out.Write(data)
	l.out.Write([]byte{'\n'})
}

func (l *Logger) writeText(level Level, msg string, fields Fields) {
	var b strings.Builder
	b.WriteString(l.timeFunc().Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%-5s", level.String()))
	b.WriteString(" ")
	if l.name != "" {
		b.WriteString("[")
		b.WriteString(l.name)
		b.WriteString("] ")
	}
	b.WriteString(msg)
	if len(fields) > 0 {
		b.WriteString(" ")
		b.WriteString(formatFields(fields))
	}
	b.WriteString("\n")
	l.out.Write([]byte(b.String()))
}

func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

var (
	globalLogger   *Logger
	globalLoggerMu sync.RWMutex
)

func init() {
	globalLogger = NewLogger(WithName("mlkem"))
}

// SetLogger replaces the package-global logger.
func SetLogger(l *Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = l
}

// L returns the package-global logger.
func L() *Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}
