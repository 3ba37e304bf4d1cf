package errors

import (
	"fmt"
	"time"
)

// ResourceErrorData is attached to not-found errors
type ResourceErrorData struct {
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty"`
	URI          string `json:"uri,omitempty"`
}

// OperationErrorData is attached to errors raised while handling a request
type OperationErrorData struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason,omitempty"`
	Retryable bool   `json:"retryable"`
}

// CapabilityErrorData is attached to capability errors
type CapabilityErrorData struct {
	Capability string `json:"capability"`
	Required   bool   `json:"required"`
}

// Protocol errors

// ParseError reports bytes that are not valid JSON
func ParseError(cause error) MCPError {
	return WrapError(cause, CodeParseError, "Parse error")
}

// InvalidRequest reports a message that is not a valid JSON-RPC object
func InvalidRequest(reason string) MCPError {
	return NewErrorf(CodeInvalidRequest, "Invalid Request: %s", reason)
}

// MethodNotFound reports a method outside the receiving role's vocabulary
func MethodNotFound(method string) MCPError {
	return NewErrorf(CodeMethodNotFound, "Method not found: %s", method)
}

// InvalidParams reports params that do not match the method's shape
func InvalidParams(method string, cause error) MCPError {
	return WrapError(cause, CodeInvalidParams, fmt.Sprintf("Invalid params for %s", method))
}

// InternalError wraps a handler failure that carries no code of its own
func InternalError(operation string, cause error) MCPError {
	message := "Internal error"
	if operation != "" {
		message = fmt.Sprintf("Internal error during %s", operation)
	}
	return WrapError(cause, CodeInternalError, message)
}

// ProtocolError reports a peer that violated the protocol
func ProtocolError(reason string) MCPError {
	return NewErrorf(CodeProtocolError, "Protocol error: %s", reason)
}

// VersionMismatch reports incompatible protocol revisions
func VersionMismatch(expected, actual string) MCPError {
	return NewErrorf(CodeVersionMismatch, "Protocol version mismatch: expected %s, got %s", expected, actual)
}

// Lifecycle errors

// ServerNotReady reports a request that arrived before initialization
func ServerNotReady(reason string) MCPError {
	return NewErrorf(CodeServerNotReady, "Server not ready: %s", reason)
}

// InitializationFailed reports a failed handshake
func InitializationFailed(reason string, cause error) MCPError {
	return WrapError(cause, CodeServerInitError, fmt.Sprintf("Initialization failed: %s", reason))
}

// Operation errors

// OperationCancelled reports a request abandoned by its caller
func OperationCancelled(operation string) MCPError {
	return NewErrorf(CodeOperationCancelled, "Operation '%s' was cancelled", operation).
		WithData(&OperationErrorData{
			Operation: operation,
			Reason:    "cancelled",
			Retryable: true,
		})
}

// OperationTimeout reports a request that exceeded its deadline
func OperationTimeout(operation string, timeout time.Duration) MCPError {
	return NewErrorf(CodeOperationTimeout, "Operation '%s' timed out after %s", operation, timeout).
		WithData(&OperationErrorData{
			Operation: operation,
			Reason:    fmt.Sprintf("timeout after %s", timeout),
			Retryable: true,
		})
}

// OperationNotSupported reports a request the service does not handle
func OperationNotSupported(operation string) MCPError {
	return NewErrorf(CodeOperationNotSupported, "Operation '%s' is not supported", operation).
		WithData(&OperationErrorData{
			Operation: operation,
			Reason:    "not supported",
		})
}

// Resource errors

// ResourceNotFound reports an unknown resource, tool or prompt
func ResourceNotFound(resourceType, resourceID string) MCPError {
	return NewErrorf(CodeResourceNotFound, "%s '%s' not found", resourceType, resourceID).
		WithData(&ResourceErrorData{
			ResourceType: resourceType,
			ResourceID:   resourceID,
		})
}

// ResourceNotFoundByURI reports an unknown resource URI
func ResourceNotFoundByURI(uri string) MCPError {
	return NewErrorf(CodeResourceNotFound, "Resource at URI '%s' not found", uri).
		WithData(&ResourceErrorData{
			ResourceType: "resource",
			URI:          uri,
		})
}

// Capability errors

// CapabilityRequired reports a request for a capability that was not advertised
func CapabilityRequired(capability string) MCPError {
	return NewErrorf(CodeCapabilityRequired, "Required capability '%s' is not enabled", capability).
		WithData(&CapabilityErrorData{
			Capability: capability,
			Required:   true,
		})
}

// Transport errors

// TransportError wraps a failure of the underlying transport
func TransportError(operation string, cause error) MCPError {
	return WrapError(cause, CodeTransportError, fmt.Sprintf("Transport error during %s", operation))
}

// ConnectionClosed reports a request whose transport went away
func ConnectionClosed(cause error) MCPError {
	return WrapError(cause, CodeConnectionClosed, "Connection closed")
}

// MessageTooLarge reports a message over the configured size limit
func MessageTooLarge(size, limit int) MCPError {
	return NewErrorf(CodeMessageTooLarge, "Message of %d bytes exceeds limit of %d bytes", size, limit)
}
