package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnknownMethodError is returned when a method name is not part of the
// vocabulary being decoded.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method %q", e.Method)
}

// InvalidParamsError is returned when params or a result do not match the
// shape the method requires.
type InvalidParamsError struct {
	Method string
	Err    error
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid params for %q: %v", e.Method, e.Err)
}

func (e *InvalidParamsError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when params lack a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

type decodeFunc[I any] func(raw json.RawMessage) (I, error)

// decodeAs decodes raw into T and returns it as the vocabulary interface I.
// Absent or null params decode like an empty object, so variants with
// required fields still reject them.
func decodeAs[I any, T any](raw json.RawMessage) (I, error) {
	var v T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		var zero I
		return zero, err
	}
	return any(v).(I), nil
}

var clientRequestDecoders = map[string]decodeFunc[ClientRequest]{
	MethodPing:                decodeAs[ClientRequest, PingRequest],
	MethodInitialize:          decodeAs[ClientRequest, InitializeRequest],
	MethodListTools:           decodeAs[ClientRequest, ListToolsRequest],
	MethodCallTool:            decodeAs[ClientRequest, CallToolRequest],
	MethodListResources:       decodeAs[ClientRequest, ListResourcesRequest],
	MethodReadResource:        decodeAs[ClientRequest, ReadResourceRequest],
	MethodSubscribeResource:   decodeAs[ClientRequest, SubscribeRequest],
	MethodUnsubscribeResource: decodeAs[ClientRequest, UnsubscribeRequest],
	MethodListPrompts:         decodeAs[ClientRequest, ListPromptsRequest],
	MethodGetPrompt:           decodeAs[ClientRequest, GetPromptRequest],
	MethodSetLogLevel:         decodeAs[ClientRequest, SetLevelRequest],
}

var serverRequestDecoders = map[string]decodeFunc[ServerRequest]{
	MethodPing:          decodeAs[ServerRequest, PingRequest],
	MethodCreateMessage: decodeAs[ServerRequest, CreateMessageRequest],
	MethodListRoots:     decodeAs[ServerRequest, ListRootsRequest],
}

var clientNotificationDecoders = map[string]decodeFunc[ClientNotification]{
	MethodCancelled:        decodeAs[ClientNotification, CancelledNotification],
	MethodProgress:         decodeAs[ClientNotification, ProgressNotification],
	MethodInitialized:      decodeAs[ClientNotification, InitializedNotification],
	MethodRootsListChanged: decodeAs[ClientNotification, RootsListChangedNotification],
}

var serverNotificationDecoders = map[string]decodeFunc[ServerNotification]{
	MethodCancelled:            decodeAs[ServerNotification, CancelledNotification],
	MethodProgress:             decodeAs[ServerNotification, ProgressNotification],
	MethodLoggingMessage:       decodeAs[ServerNotification, LoggingMessageNotification],
	MethodResourceUpdated:      decodeAs[ServerNotification, ResourceUpdatedNotification],
	MethodResourcesListChanged: decodeAs[ServerNotification, ResourceListChangedNotification],
	MethodToolsListChanged:     decodeAs[ServerNotification, ToolListChangedNotification],
	MethodPromptsListChanged:   decodeAs[ServerNotification, PromptListChangedNotification],
}

// Results are keyed by the method of the request they answer.
var clientResultDecoders = map[string]decodeFunc[ClientResult]{
	MethodPing:          decodeAs[ClientResult, EmptyResult],
	MethodCreateMessage: decodeAs[ClientResult, CreateMessageResult],
	MethodListRoots:     decodeAs[ClientResult, ListRootsResult],
}

var serverResultDecoders = map[string]decodeFunc[ServerResult]{
	MethodPing:                decodeAs[ServerResult, EmptyResult],
	MethodInitialize:          decodeAs[ServerResult, InitializeResult],
	MethodListTools:           decodeAs[ServerResult, ListToolsResult],
	MethodCallTool:            decodeAs[ServerResult, CallToolResult],
	MethodListResources:       decodeAs[ServerResult, ListResourcesResult],
	MethodReadResource:        decodeAs[ServerResult, ReadResourceResult],
	MethodSubscribeResource:   decodeAs[ServerResult, EmptyResult],
	MethodUnsubscribeResource: decodeAs[ServerResult, EmptyResult],
	MethodListPrompts:         decodeAs[ServerResult, ListPromptsResult],
	MethodGetPrompt:           decodeAs[ServerResult, GetPromptResult],
	MethodSetLogLevel:         decodeAs[ServerResult, EmptyResult],
}

func decode[I any](table map[string]decodeFunc[I], method string, raw json.RawMessage) (I, error) {
	fn, ok := table[method]
	if !ok {
		var zero I
		return zero, &UnknownMethodError{Method: method}
	}
	v, err := fn(raw)
	if err != nil {
		return v, &InvalidParamsError{Method: method, Err: err}
	}
	return v, nil
}

// DecodeClientRequest decodes the params of a client request
func DecodeClientRequest(method string, params json.RawMessage) (ClientRequest, error) {
	return decode(clientRequestDecoders, method, params)
}

// DecodeServerRequest decodes the params of a server request
func DecodeServerRequest(method string, params json.RawMessage) (ServerRequest, error) {
	return decode(serverRequestDecoders, method, params)
}

// DecodeClientNotification decodes the params of a client notification
func DecodeClientNotification(method string, params json.RawMessage) (ClientNotification, error) {
	return decode(clientNotificationDecoders, method, params)
}

// DecodeServerNotification decodes the params of a server notification
func DecodeServerNotification(method string, params json.RawMessage) (ServerNotification, error) {
	return decode(serverNotificationDecoders, method, params)
}

// DecodeClientResult decodes a client's result to the server request named by
// method.
func DecodeClientResult(method string, result json.RawMessage) (ClientResult, error) {
	return decode(clientResultDecoders, method, result)
}

// DecodeServerResult decodes a server's result to the client request named by
// method.
func DecodeServerResult(method string, result json.RawMessage) (ServerResult, error) {
	return decode(serverResultDecoders, method, result)
}

// EncodeParams renders a request or notification variant as JSON-RPC params.
func EncodeParams(m Message) (json.RawMessage, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s params: %w", m.Method(), err)
	}
	return raw, nil
}
