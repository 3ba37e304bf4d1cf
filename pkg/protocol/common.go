package protocol

import "encoding/json"

// Message is implemented by every request and notification variant.
type Message interface {
	// Method returns the JSON-RPC method name of the message
	Method() string
}

// Request is implemented by every request variant. Requests may carry a
// progress token in their _meta field.
type Request interface {
	Message
	GetMeta() *RequestMeta
}

// RequestMeta is the _meta object of a request
type RequestMeta struct {
	ProgressToken *ProgressToken `json:"progressToken,omitempty"`
}

// RequestParams is embedded by request variants to carry _meta
type RequestParams struct {
	Meta *RequestMeta `json:"_meta,omitempty"`
}

// GetMeta returns the request metadata, or nil if none was sent
func (p RequestParams) GetMeta() *RequestMeta {
	return p.Meta
}

// WithProgressToken returns params carrying token in _meta
func WithProgressToken(token ProgressToken) RequestParams {
	return RequestParams{Meta: &RequestMeta{ProgressToken: &token}}
}

// Implementation describes the name and version of an MCP implementation
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PingRequest checks that the peer is alive. Both roles may send it.
type PingRequest struct {
	RequestParams
}

func (PingRequest) Method() string { return MethodPing }
func (PingRequest) isClientRequest() {}
func (PingRequest) isServerRequest() {}

// EmptyResult is the result of requests that return nothing, such as ping.
type EmptyResult struct{}

func (EmptyResult) isClientResult() {}
func (EmptyResult) isServerResult() {}

// CancelledNotification asks the peer to abandon the request with RequestID.
// It is the canonical cancellation shape every notification vocabulary
// converts to and from.
type CancelledNotification struct {
	RequestID RequestID `json:"requestId"`
	Reason    string    `json:"reason,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. requestId is required.
func (n *CancelledNotification) UnmarshalJSON(data []byte) error {
	var wire struct {
		RequestID *RequestID `json:"requestId"`
		Reason    string     `json:"reason"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.RequestID == nil {
		return &MissingFieldError{Field: "requestId"}
	}
	*n = CancelledNotification{RequestID: *wire.RequestID, Reason: wire.Reason}
	return nil
}

func (CancelledNotification) Method() string { return MethodCancelled }
func (CancelledNotification) isClientNotification() {}
func (CancelledNotification) isServerNotification() {}

// ProgressNotification reports progress on a request that supplied a progress
// token.
type ProgressNotification struct {
	ProgressToken ProgressToken `json:"progressToken"`
	Progress      float64       `json:"progress"`
	Total         float64       `json:"total,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. progressToken is required.
func (n *ProgressNotification) UnmarshalJSON(data []byte) error {
	var wire struct {
		ProgressToken *ProgressToken `json:"progressToken"`
		Progress      float64        `json:"progress"`
		Total         float64        `json:"total"`
		Message       string         `json:"message"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ProgressToken == nil {
		return &MissingFieldError{Field: "progressToken"}
	}
	*n = ProgressNotification{
		ProgressToken: *wire.ProgressToken,
		Progress:      wire.Progress,
		Total:         wire.Total,
		Message:       wire.Message,
	}
	return nil
}

func (ProgressNotification) Method() string { return MethodProgress }
func (ProgressNotification) isClientNotification() {}
func (ProgressNotification) isServerNotification() {}

// TextContent is a text content block
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextContent returns a text content block
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// LoggingMessageNotification carries a log record from server to client
type LoggingMessageNotification struct {
	Level  LogLevel        `json:"level"`
	Logger string          `json:"logger,omitempty"`
	Data   json.RawMessage `json:"data"`
}

func (LoggingMessageNotification) Method() string { return MethodLoggingMessage }
func (LoggingMessageNotification) isServerNotification() {}
