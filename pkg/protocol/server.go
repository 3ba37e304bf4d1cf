package protocol

import "encoding/json"

// ServerRequest is the vocabulary of requests a server sends to a client.
type ServerRequest interface {
	Request
	isServerRequest()
}

// ServerResult is the vocabulary of results a server returns to a client.
type ServerResult interface {
	isServerResult()
}

// ServerNotification is the vocabulary of notifications a server sends.
type ServerNotification interface {
	Message
	isServerNotification()
}

// ServerCapabilities lists the optional features a server supports
type ServerCapabilities struct {
	Experimental map[string]json.RawMessage `json:"experimental,omitempty"`
	Logging      *struct{}                  `json:"logging,omitempty"`
	Tools        *ListChangedCapability     `json:"tools,omitempty"`
	Resources    *ResourcesCapability       `json:"resources,omitempty"`
	Prompts      *ListChangedCapability     `json:"prompts,omitempty"`
}

// ListChangedCapability advertises list_changed notifications
type ListChangedCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourcesCapability describes resource support
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// InitializeResult is what a server announces about itself.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

func (InitializeResult) isServerResult() {}

// ServerInfo is the descriptive record a server service reports from GetInfo.
// It is the result of the initialize request.
type ServerInfo = InitializeResult

// CreateMessageRequest asks the client to sample a model
type CreateMessageRequest struct {
	RequestParams
	Messages     []SamplingMessage `json:"messages"`
	SystemPrompt string            `json:"systemPrompt,omitempty"`
	MaxTokens    int               `json:"maxTokens"`
}

func (CreateMessageRequest) Method() string { return MethodCreateMessage }
func (CreateMessageRequest) isServerRequest() {}

// ListRootsRequest asks the client for its roots
type ListRootsRequest struct {
	RequestParams
}

func (ListRootsRequest) Method() string { return MethodListRoots }
func (ListRootsRequest) isServerRequest() {}

// Tool describes a tool a server offers
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult lists tools
type ListToolsResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func (ListToolsResult) isServerResult() {}

// CallToolResult is the output of a tool call. Tool failures are reported with
// IsError rather than as protocol errors.
type CallToolResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func (CallToolResult) isServerResult() {}

// Resource describes a resource a server offers
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult lists resources
type ListResourcesResult struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

func (ListResourcesResult) isServerResult() {}

// ResourceContents is the body of a read resource
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ReadResourceResult holds resource contents
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

func (ReadResourceResult) isServerResult() {}

// PromptArgument describes one argument of a prompt
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Prompt describes a prompt template
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// ListPromptsResult lists prompts
type ListPromptsResult struct {
	Prompts    []Prompt `json:"prompts"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

func (ListPromptsResult) isServerResult() {}

// PromptMessage is one message of a rendered prompt
type PromptMessage struct {
	Role    string      `json:"role"`
	Content TextContent `json:"content"`
}

// GetPromptResult is a rendered prompt
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

func (GetPromptResult) isServerResult() {}

// ResourceUpdatedNotification reports a change to a subscribed resource
type ResourceUpdatedNotification struct {
	URI string `json:"uri"`
}

func (ResourceUpdatedNotification) Method() string { return MethodResourceUpdated }
func (ResourceUpdatedNotification) isServerNotification() {}

// ResourceListChangedNotification reports that the resource list changed
type ResourceListChangedNotification struct{}

func (ResourceListChangedNotification) Method() string { return MethodResourcesListChanged }
func (ResourceListChangedNotification) isServerNotification() {}

// ToolListChangedNotification reports that the tool list changed
type ToolListChangedNotification struct{}

func (ToolListChangedNotification) Method() string { return MethodToolsListChanged }
func (ToolListChangedNotification) isServerNotification() {}

// PromptListChangedNotification reports that the prompt list changed
type PromptListChangedNotification struct{}

func (PromptListChangedNotification) Method() string { return MethodPromptsListChanged }
func (PromptListChangedNotification) isServerNotification() {}
