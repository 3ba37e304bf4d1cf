package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

func TestMCPErrorInterface(t *testing.T) {
	tests := []struct {
		name     string
		err      MCPError
		wantCode int
		wantCat  Category
		wantSev  Severity
	}{
		{
			name:     "method not found",
			err:      MethodNotFound("tools/frobnicate"),
			wantCode: CodeMethodNotFound,
			wantCat:  CategoryProtocol,
			wantSev:  SeverityError,
		},
		{
			name:     "resource not found",
			err:      ResourceNotFound("tool", "echo"),
			wantCode: CodeResourceNotFound,
			wantCat:  CategoryNotFound,
			wantSev:  SeverityError,
		},
		{
			name:     "cancelled",
			err:      OperationCancelled("tools/call"),
			wantCode: CodeOperationCancelled,
			wantCat:  CategoryCancelled,
			wantSev:  SeverityInfo,
		},
		{
			name:     "not ready",
			err:      ServerNotReady("initialize first"),
			wantCode: CodeServerNotReady,
			wantCat:  CategoryProtocol,
			wantSev:  SeverityError,
		},
		{
			name:     "capability",
			err:      CapabilityRequired("sampling"),
			wantCode: CodeCapabilityRequired,
			wantCat:  CategoryCapability,
			wantSev:  SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Code(); got != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got, tt.wantCode)
			}
			if got := tt.err.Category(); got != tt.wantCat {
				t.Errorf("Category() = %v, want %v", got, tt.wantCat)
			}
			if got := tt.err.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}
			if msg := tt.err.Error(); msg == "" {
				t.Error("Error() returned empty string")
			}
			assert.NotNil(t, tt.err.Context())
		})
	}
}

func TestWithContextCopies(t *testing.T) {
	original := MethodNotFound("x")
	withCtx := original.WithContext(&Context{RequestID: "7", Method: "x", Role: "server"})

	assert.Equal(t, "7", withCtx.Context().RequestID)
	assert.Empty(t, original.Context().RequestID)
}

func TestWrapErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := InternalError("tools/call", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, "Internal error during tools/call", err.Message())
}

func TestAsMCPErrorFindsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ResourceNotFoundByURI("mem://x"))

	mcpErr, ok := AsMCPError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeResourceNotFound, mcpErr.Code())
	assert.True(t, IsCode(wrapped, CodeResourceNotFound))
	assert.True(t, IsCategory(wrapped, CategoryNotFound))

	_, ok = AsMCPError(fmt.Errorf("plain"))
	assert.False(t, ok)
	_, ok = AsMCPError(nil)
	assert.False(t, ok)
}

func TestToJSONRPCError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"mcp error", MethodNotFound("x"), CodeMethodNotFound},
		{"plain error", fmt.Errorf("boom"), CodeInternalError},
		{"cancelled", context.Canceled, CodeOperationCancelled},
		{"wrapped cancel", fmt.Errorf("call: %w", context.Canceled), CodeOperationCancelled},
		{"deadline", context.DeadlineExceeded, CodeOperationTimeout},
		{"unknown method", &protocol.UnknownMethodError{Method: "x"}, CodeMethodNotFound},
		{"invalid params", &protocol.InvalidParamsError{Method: "x", Err: fmt.Errorf("bad")}, CodeInvalidParams},
		{"rpc error", &protocol.Error{Code: -32099, Message: "custom"}, -32099},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpcErr := ToJSONRPCError(tt.err)
			require.NotNil(t, rpcErr)
			assert.Equal(t, tt.wantCode, rpcErr.Code)
			assert.NotEmpty(t, rpcErr.Message)
		})
	}

	assert.Nil(t, ToJSONRPCError(nil))
}

func TestJSONRPCErrorRoundTrip(t *testing.T) {
	original := ResourceNotFound("prompt", "greet")

	rpcErr := ToJSONRPCError(original)
	back := FromJSONRPCError(rpcErr)

	assert.Equal(t, original.Code(), back.Code())
	assert.Equal(t, original.Message(), back.Message())
	assert.Equal(t, original.Category(), back.Category())
	assert.Nil(t, FromJSONRPCError(nil))
}

func TestFromDecodeError(t *testing.T) {
	_, err := protocol.DecodeClientRequest("nope", nil)
	assert.Equal(t, CodeMethodNotFound, FromDecodeError("nope", err).Code())

	_, err = protocol.DecodeClientRequest(protocol.MethodReadResource, json.RawMessage(`{"uri":1}`))
	assert.Equal(t, CodeInvalidParams, FromDecodeError(protocol.MethodReadResource, err).Code())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(OperationTimeout("ping", time.Second)))
	assert.True(t, IsRetryable(TransportError("send", fmt.Errorf("broken pipe"))))
	assert.False(t, IsRetryable(MethodNotFound("x")))
	assert.False(t, IsRetryable(fmt.Errorf("plain")))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(ResourceNotFound("tool", "echo"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(CodeResourceNotFound), decoded["code"])
	assert.Equal(t, "not_found", decoded["category"])
}

func TestCodeRegistry(t *testing.T) {
	info, ok := LookupCode(CodeServerNotReady)
	require.True(t, ok)
	assert.Equal(t, "ServerNotReady", info.Name)
	assert.Equal(t, "UnknownError", CodeName(12345))
	assert.Equal(t, CategoryInternal, CodeCategory(12345))
	assert.True(t, IsMCPSpecificCode(CodeOperationCancelled))
	assert.False(t, IsMCPSpecificCode(CodeParseError))
}
