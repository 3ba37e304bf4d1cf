package errors

// JSON-RPC 2.0 standard error codes
const (
	CodeParseError     int = -32700
	CodeInvalidRequest int = -32600
	CodeMethodNotFound int = -32601
	CodeInvalidParams  int = -32602
	CodeInternalError  int = -32603
)

// MCP error codes. The server-defined range of JSON-RPC is split into blocks
// of one hundred per concern.
const (
	// Lifecycle errors (-32000 to -32099)
	CodeServerInitError int = -32000 // Error during initialization
	CodeServerNotReady  int = -32001 // Request arrived before initialization finished

	// Resource errors (-32200 to -32299)
	CodeResourceNotFound int = -32200 // Resource, tool or prompt not found

	// Operation errors (-32300 to -32399)
	CodeOperationCancelled    int = -32300 // Request was cancelled by the caller
	CodeOperationTimeout      int = -32301 // Request timed out
	CodeOperationFailed       int = -32302 // Handler failed
	CodeOperationNotSupported int = -32303 // Handler does not implement the request

	// Capability errors (-32400 to -32499)
	CodeCapabilityRequired int = -32401 // Required capability not advertised

	// Transport errors (-32500 to -32599)
	CodeTransportError   int = -32500 // Generic transport failure
	CodeConnectionClosed int = -32502 // Transport closed while a request was pending
	CodeMessageTooLarge  int = -32504 // Message exceeds the configured limit

	// Protocol errors (-32900 to -32999)
	CodeProtocolError   int = -32900 // Peer violated the protocol
	CodeVersionMismatch int = -32901 // Protocol revision mismatch
)

// CodeInfo describes a registered error code
type CodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

var codeRegistry = map[int]CodeInfo{
	CodeParseError:     {CodeParseError, "ParseError", "Invalid JSON was received", CategoryProtocol, SeverityError},
	CodeInvalidRequest: {CodeInvalidRequest, "InvalidRequest", "Invalid Request object", CategoryProtocol, SeverityError},
	CodeMethodNotFound: {CodeMethodNotFound, "MethodNotFound", "Method does not exist", CategoryProtocol, SeverityError},
	CodeInvalidParams:  {CodeInvalidParams, "InvalidParams", "Invalid method parameters", CategoryValidation, SeverityError},
	CodeInternalError:  {CodeInternalError, "InternalError", "Internal JSON-RPC error", CategoryInternal, SeverityError},

	CodeServerInitError: {CodeServerInitError, "ServerInitError", "Initialization failed", CategoryInternal, SeverityCritical},
	CodeServerNotReady:  {CodeServerNotReady, "ServerNotReady", "Server not ready", CategoryProtocol, SeverityError},

	CodeResourceNotFound: {CodeResourceNotFound, "ResourceNotFound", "Resource not found", CategoryNotFound, SeverityError},

	CodeOperationCancelled:    {CodeOperationCancelled, "OperationCancelled", "Operation cancelled", CategoryCancelled, SeverityInfo},
	CodeOperationTimeout:      {CodeOperationTimeout, "OperationTimeout", "Operation timed out", CategoryTimeout, SeverityError},
	CodeOperationFailed:       {CodeOperationFailed, "OperationFailed", "Operation failed", CategoryInternal, SeverityError},
	CodeOperationNotSupported: {CodeOperationNotSupported, "OperationNotSupported", "Operation not supported", CategoryCapability, SeverityError},

	CodeCapabilityRequired: {CodeCapabilityRequired, "CapabilityRequired", "Required capability not enabled", CategoryCapability, SeverityError},

	CodeTransportError:   {CodeTransportError, "TransportError", "Transport error", CategoryTransport, SeverityError},
	CodeConnectionClosed: {CodeConnectionClosed, "ConnectionClosed", "Connection closed", CategoryTransport, SeverityError},
	CodeMessageTooLarge:  {CodeMessageTooLarge, "MessageTooLarge", "Message too large", CategoryTransport, SeverityError},

	CodeProtocolError:   {CodeProtocolError, "ProtocolError", "Protocol error", CategoryProtocol, SeverityError},
	CodeVersionMismatch: {CodeVersionMismatch, "VersionMismatch", "Protocol version mismatch", CategoryProtocol, SeverityError},
}

// LookupCode returns information about a registered code
func LookupCode(code int) (CodeInfo, bool) {
	info, ok := codeRegistry[code]
	return info, ok
}

// CodeName returns the name of a code, or "UnknownError"
func CodeName(code int) string {
	if info, ok := codeRegistry[code]; ok {
		return info.Name
	}
	return "UnknownError"
}

// CodeCategory returns the category of a code. Unregistered codes are internal.
func CodeCategory(code int) Category {
	if info, ok := codeRegistry[code]; ok {
		return info.Category
	}
	return CategoryInternal
}

// CodeSeverity returns the severity of a code
func CodeSeverity(code int) Severity {
	if info, ok := codeRegistry[code]; ok {
		return info.Severity
	}
	return SeverityError
}

// IsMCPSpecificCode reports whether code lies in the MCP range
func IsMCPSpecificCode(code int) bool {
	return code >= -32999 && code <= -32000
}
