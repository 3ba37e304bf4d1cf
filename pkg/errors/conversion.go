package errors

import (
	"context"
	stderrors "errors"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

// ToJSONRPCError converts any error to a JSON-RPC error object. Context
// cancellation maps to CodeOperationCancelled and deadline expiry to
// CodeOperationTimeout. Other errors without a code become internal errors.
func ToJSONRPCError(err error) *protocol.Error {
	if err == nil {
		return nil
	}

	if mcpErr, ok := AsMCPError(err); ok {
		return &protocol.Error{
			Code:    mcpErr.Code(),
			Message: mcpErr.Message(),
			Data:    mcpErr.Data(),
		}
	}

	var rpcErr *protocol.Error
	if stderrors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case stderrors.Is(err, context.Canceled):
		return &protocol.Error{Code: CodeOperationCancelled, Message: err.Error()}
	case stderrors.Is(err, context.DeadlineExceeded):
		return &protocol.Error{Code: CodeOperationTimeout, Message: err.Error()}
	}

	var unknown *protocol.UnknownMethodError
	if stderrors.As(err, &unknown) {
		return &protocol.Error{Code: CodeMethodNotFound, Message: err.Error()}
	}
	var invalid *protocol.InvalidParamsError
	if stderrors.As(err, &invalid) {
		return &protocol.Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	return &protocol.Error{
		Code:    CodeInternalError,
		Message: err.Error(),
	}
}

// FromJSONRPCError converts a JSON-RPC error received from a peer into an
// MCPError
func FromJSONRPCError(rpcErr *protocol.Error) MCPError {
	if rpcErr == nil {
		return nil
	}

	err := NewError(rpcErr.Code, rpcErr.Message)
	if rpcErr.Data != nil {
		err = err.WithData(rpcErr.Data)
	}
	return err
}

// FromDecodeError converts a vocabulary decoding failure into the matching
// JSON-RPC error
func FromDecodeError(method string, err error) MCPError {
	var unknown *protocol.UnknownMethodError
	if stderrors.As(err, &unknown) {
		return MethodNotFound(unknown.Method)
	}
	var invalid *protocol.InvalidParamsError
	if stderrors.As(err, &invalid) {
		return InvalidParams(invalid.Method, invalid.Err)
	}
	return InvalidParams(method, err)
}

// IsRetryable reports whether a failed request may succeed if sent again
func IsRetryable(err error) bool {
	mcpErr, ok := AsMCPError(err)
	if !ok {
		return stderrors.Is(err, context.DeadlineExceeded)
	}

	if data, ok := mcpErr.Data().(*OperationErrorData); ok {
		return data.Retryable
	}

	switch mcpErr.Category() {
	case CategoryTimeout, CategoryTransport:
		return true
	}
	return false
}
