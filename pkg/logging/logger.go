// Package logging provides the structured logger used by MCP peers.
// Entries carry the session, role, method and request id of the message being
// handled so that both sides of a session can be correlated in one log stream.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name such as "debug" or "WARN"
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Well-known field keys
const (
	KeyRequestID = "request_id"
	KeySessionID = "session_id"
	KeyRole      = "role"
	KeyMethod    = "method"
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// ErrorField creates an error field
func ErrorField(err error) Field {
	return Field{Key: "error", Value: err}
}

// Method tags an entry with the JSON-RPC method being handled
func Method(method string) Field {
	return Field{Key: KeyMethod, Value: method}
}

// RequestID tags an entry with a request id. Any fmt.Stringer is rendered
// with its String method.
func RequestID(id fmt.Stringer) Field {
	return Field{Key: KeyRequestID, Value: id.String()}
}

// Logger is the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithFields returns a new logger with additional fields
	WithFields(fields ...Field) Logger
	// WithContext returns a new logger carrying the request id stored in ctx
	WithContext(ctx context.Context) Logger
	// WithError returns a new logger carrying err and, for MCP errors, its
	// code, category and context
	WithError(err error) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Entry is a single log record handed to a Formatter
type Entry struct {
	Level     Level
	Message   string
	Fields    map[string]interface{}
	Timestamp time.Time
	RequestID string
	Role      string
	Method    string
}

// Formatter formats log entries
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// sink is shared by a logger and every logger derived from it, so a level
// change or a write lock applies to all of them.
type sink struct {
	mu        sync.Mutex
	level     Level
	output    io.Writer
	formatter Formatter
}

type logger struct {
	sink   *sink
	fields map[string]interface{}
}

// New creates a logger writing to output. Nil arguments default to stderr and
// the text formatter.
func New(output io.Writer, formatter Formatter) Logger {
	if output == nil {
		output = os.Stderr
	}
	if formatter == nil {
		formatter = NewTextFormatter()
	}
	return &logger{
		sink: &sink{
			level:     InfoLevel,
			output:    output,
			formatter: formatter,
		},
		fields: make(map[string]interface{}),
	}
}

// NewFromConfig builds a logger from a level name and a format name ("text"
// or "json").
func NewFromConfig(level, format string, output io.Writer) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(format) {
	case "", "text":
		text := NewTextFormatter()
		text.DisableColors = true
		formatter = text
	case "json":
		formatter = NewJSONFormatter()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	l := New(output, formatter)
	l.SetLevel(lvl)
	return l, nil
}

// Nop returns a logger that discards everything
func Nop() Logger {
	l := New(io.Discard, NewJSONFormatter())
	l.SetLevel(ErrorLevel + 1)
	return l
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields)
}

func (l *logger) WithFields(fields ...Field) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &logger{sink: l.sink, fields: merged}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		return l.WithFields(String(KeyRequestID, requestID))
	}
	return l
}

func (l *logger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	fields := []Field{ErrorField(err)}

	if mcpErr, ok := mcperrors.AsMCPError(err); ok {
		fields = append(fields,
			Int("error_code", mcpErr.Code()),
			String("error_category", string(mcpErr.Category())),
		)
		if ctx := mcpErr.Context(); ctx != nil {
			if ctx.RequestID != "" {
				fields = append(fields, String(KeyRequestID, ctx.RequestID))
			}
			if ctx.Method != "" {
				fields = append(fields, Method(ctx.Method))
			}
			if ctx.Role != "" {
				fields = append(fields, String(KeyRole, ctx.Role))
			}
		}
	}

	return l.WithFields(fields...)
}

func (l *logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

func (l *logger) GetLevel() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *logger) log(level Level, msg string, fields []Field) {
	if level < l.GetLevel() {
		return
	}

	entry := &Entry{
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]interface{}, len(l.fields)+len(fields)),
		Timestamp: time.Now(),
	}
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	if v, ok := entry.Fields[KeyRequestID].(string); ok {
		entry.RequestID = v
	}
	if v, ok := entry.Fields[KeyRole].(string); ok {
		entry.Role = v
	}
	if v, ok := entry.Fields[KeyMethod].(string); ok {
		entry.Method = v
	}

	data, err := l.sink.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format log entry: %v\n", err)
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if _, err := l.sink.output.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log entry: %v\n", err)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID returns a context carrying a request id
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id stored by ContextWithRequestID
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// NewCorrelationID returns a random id used to tag every entry of one session
func NewCorrelationID() string {
	return uuid.New().String()
}
