// Package errors provides the structured errors exchanged by MCP peers.
// Every error maps onto a JSON-RPC error code so that a failure raised by a
// service handler on one side of a session arrives as the same code, category
// and message on the other.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"
)

// Category represents the type/category of an error for classification and handling
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategoryTransport  Category = "transport"
	CategoryInternal   Category = "internal"
	CategoryTimeout    Category = "timeout"
	CategoryCancelled  Category = "cancelled"
	CategoryProtocol   Category = "protocol"
	CategoryCapability Category = "capability"
)

// Severity indicates how critical an error is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Context records where an error was raised within a session
type Context struct {
	RequestID string    `json:"request_id,omitempty"`
	Method    string    `json:"method,omitempty"`
	Role      string    `json:"role,omitempty"`
	Component string    `json:"component,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MCPError is implemented by every error this package creates
type MCPError interface {
	error

	// Code returns the JSON-RPC error code
	Code() int

	// Message returns a human-readable error message
	Message() string

	// Data returns structured error data sent alongside the code
	Data() interface{}

	Category() Category
	Severity() Severity
	Context() *Context

	// WithContext returns a copy carrying ctx
	WithContext(ctx *Context) MCPError

	// WithData returns a copy carrying structured data
	WithData(data interface{}) MCPError

	Unwrap() error
}

type mcpError struct {
	code     int
	message  string
	data     interface{}
	category Category
	severity Severity
	context  *Context
	cause    error
}

func (e *mcpError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *mcpError) Code() int { return e.code }
func (e *mcpError) Message() string { return e.message }
func (e *mcpError) Data() interface{} { return e.data }
func (e *mcpError) Category() Category { return e.category }
func (e *mcpError) Severity() Severity { return e.severity }
func (e *mcpError) Context() *Context { return e.context }
func (e *mcpError) Unwrap() error { return e.cause }

func (e *mcpError) WithContext(ctx *Context) MCPError {
	clone := *e
	clone.context = ctx
	return &clone
}

func (e *mcpError) WithData(data interface{}) MCPError {
	clone := *e
	clone.data = data
	return &clone
}

// MarshalJSON renders the error for structured logs
func (e *mcpError) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"code":     e.code,
		"message":  e.message,
		"category": string(e.category),
		"severity": string(e.severity),
	}
	if e.data != nil {
		out["data"] = e.data
	}
	if e.context != nil {
		out["context"] = e.context
	}
	if e.cause != nil {
		out["cause"] = e.cause.Error()
	}
	return json.Marshal(out)
}

// NewError creates an MCPError. Category and severity come from the code
// registry.
func NewError(code int, message string) MCPError {
	return &mcpError{
		code:     code,
		message:  message,
		category: CodeCategory(code),
		severity: CodeSeverity(code),
		context:  &Context{Timestamp: time.Now()},
	}
}

// NewErrorf creates an MCPError with a formatted message
func NewErrorf(code int, format string, args ...interface{}) MCPError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WrapError wraps cause as an MCPError
func WrapError(cause error, code int, message string) MCPError {
	err := NewError(code, message).(*mcpError)
	err.cause = cause
	return err
}

// AsMCPError finds the first MCPError in err's chain
func AsMCPError(err error) (MCPError, bool) {
	if err == nil {
		return nil, false
	}
	var mcpErr MCPError
	if stderrors.As(err, &mcpErr) {
		return mcpErr, true
	}
	return nil, false
}

// IsCode reports whether err carries code
func IsCode(err error, code int) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Code() == code
	}
	return false
}

// IsCategory reports whether err belongs to category
func IsCategory(err error, category Category) bool {
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr.Category() == category
	}
	return false
}
