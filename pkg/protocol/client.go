package protocol

import "encoding/json"

// ClientRequest is the vocabulary of requests a client sends to a server.
type ClientRequest interface {
	Request
	isClientRequest()
}

// ClientResult is the vocabulary of results a client returns to a server.
type ClientResult interface {
	isClientResult()
}

// ClientNotification is the vocabulary of notifications a client sends.
type ClientNotification interface {
	Message
	isClientNotification()
}

// ClientCapabilities lists the optional features a client supports
type ClientCapabilities struct {
	Experimental map[string]json.RawMessage `json:"experimental,omitempty"`
	Roots        *RootsCapability           `json:"roots,omitempty"`
	Sampling     *struct{}                  `json:"sampling,omitempty"`
}

// RootsCapability describes root listing support
type RootsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeRequestParams is what a client announces about itself.
type InitializeRequestParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// ClientInfo is the descriptive record a client service reports from GetInfo.
// It is the payload of the initialize request.
type ClientInfo = InitializeRequestParams

// InitializeRequest opens a session
type InitializeRequest struct {
	RequestParams
	InitializeRequestParams
}

func (InitializeRequest) Method() string { return MethodInitialize }
func (InitializeRequest) isClientRequest() {}

// ListToolsRequest lists the tools a server offers
type ListToolsRequest struct {
	RequestParams
	Cursor string `json:"cursor,omitempty"`
}

func (ListToolsRequest) Method() string { return MethodListTools }
func (ListToolsRequest) isClientRequest() {}

// CallToolRequest invokes a tool by name
type CallToolRequest struct {
	RequestParams
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

func (CallToolRequest) Method() string { return MethodCallTool }
func (CallToolRequest) isClientRequest() {}

// ListResourcesRequest lists the resources a server offers
type ListResourcesRequest struct {
	RequestParams
	Cursor string `json:"cursor,omitempty"`
}

func (ListResourcesRequest) Method() string { return MethodListResources }
func (ListResourcesRequest) isClientRequest() {}

// ReadResourceRequest reads a resource by URI
type ReadResourceRequest struct {
	RequestParams
	URI string `json:"uri"`
}

func (ReadResourceRequest) Method() string { return MethodReadResource }
func (ReadResourceRequest) isClientRequest() {}

// SubscribeRequest asks to be notified when a resource changes
type SubscribeRequest struct {
	RequestParams
	URI string `json:"uri"`
}

func (SubscribeRequest) Method() string { return MethodSubscribeResource }
func (SubscribeRequest) isClientRequest() {}

// UnsubscribeRequest cancels a resource subscription
type UnsubscribeRequest struct {
	RequestParams
	URI string `json:"uri"`
}

func (UnsubscribeRequest) Method() string { return MethodUnsubscribeResource }
func (UnsubscribeRequest) isClientRequest() {}

// ListPromptsRequest lists the prompts a server offers
type ListPromptsRequest struct {
	RequestParams
	Cursor string `json:"cursor,omitempty"`
}

func (ListPromptsRequest) Method() string { return MethodListPrompts }
func (ListPromptsRequest) isClientRequest() {}

// GetPromptRequest renders a prompt with arguments
type GetPromptRequest struct {
	RequestParams
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

func (GetPromptRequest) Method() string { return MethodGetPrompt }
func (GetPromptRequest) isClientRequest() {}

// SetLevelRequest sets the minimum level of log messages the server sends
type SetLevelRequest struct {
	RequestParams
	Level LogLevel `json:"level"`
}

func (SetLevelRequest) Method() string { return MethodSetLogLevel }
func (SetLevelRequest) isClientRequest() {}

// SamplingMessage is one turn of a sampling conversation
type SamplingMessage struct {
	Role    string      `json:"role"`
	Content TextContent `json:"content"`
}

// CreateMessageResult is the client's answer to a sampling request
type CreateMessageResult struct {
	Role       string      `json:"role"`
	Content    TextContent `json:"content"`
	Model      string      `json:"model"`
	StopReason string      `json:"stopReason,omitempty"`
}

func (CreateMessageResult) isClientResult() {}

// Root is a filesystem or URI root the client exposes
type Root struct {
	URI  string `json:"uri"`
	Name string `json:"name,omitempty"`
}

// ListRootsResult lists the client's roots
type ListRootsResult struct {
	Roots []Root `json:"roots"`
}

func (ListRootsResult) isClientResult() {}

// InitializedNotification completes the initialization handshake
type InitializedNotification struct{}

func (InitializedNotification) Method() string { return MethodInitialized }
func (InitializedNotification) isClientNotification() {}

// RootsListChangedNotification tells the server the roots changed
type RootsListChangedNotification struct{}

func (RootsListChangedNotification) Method() string { return MethodRootsListChanged }
func (RootsListChangedNotification) isClientNotification() {}
