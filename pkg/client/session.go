package client

import (
	"context"
	"encoding/json"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/pagination"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/session"
)

// Session is an initialized connection to one server
type Session struct {
	client *Client
	peer   *session.ClientPeer
	info   protocol.ServerInfo
}

// ServerInfo returns what the server reported during initialize
func (s *Session) ServerInfo() protocol.ServerInfo {
	return s.info
}

// HasCapability reports whether the server advertised capability
func (s *Session) HasCapability(capability protocol.CapabilityType) bool {
	caps := s.info.Capabilities
	switch capability {
	case protocol.CapabilityTools:
		return caps.Tools != nil
	case protocol.CapabilityResources:
		return caps.Resources != nil
	case protocol.CapabilityPrompts:
		return caps.Prompts != nil
	case protocol.CapabilityLogging:
		return caps.Logging != nil
	default:
		return false
	}
}

// Peer exposes the underlying session for raw requests and notifications
func (s *Session) Peer() *session.ClientPeer {
	return s.peer
}

// Done is closed when the session ends
func (s *Session) Done() <-chan struct{} {
	return s.peer.Done()
}

// Close ends the session
func (s *Session) Close() error {
	return s.peer.Close()
}

func (s *Session) require(capability protocol.CapabilityType) error {
	if !s.HasCapability(capability) {
		return mcperrors.CapabilityRequired(string(capability))
	}
	return nil
}

// call sends req and asserts the result type the server should answer with
func call[T protocol.ServerResult](ctx context.Context, s *Session, req protocol.ClientRequest) (T, error) {
	var zero T
	result, err := s.peer.SendRequest(ctx, req)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, mcperrors.ProtocolError(fmt.Sprintf("unexpected %s result %T", req.Method(), result))
	}
	return typed, nil
}

// Ping checks if the server is responding
func (s *Session) Ping(ctx context.Context) error {
	_, err := call[protocol.EmptyResult](ctx, s, protocol.PingRequest{})
	return err
}

// ListTools fetches one page of tools. Pass the previous page's NextCursor to
// continue; an empty cursor starts from the beginning.
func (s *Session) ListTools(ctx context.Context, cursor string) (protocol.ListToolsResult, error) {
	if err := s.require(protocol.CapabilityTools); err != nil {
		return protocol.ListToolsResult{}, err
	}
	return call[protocol.ListToolsResult](ctx, s, protocol.ListToolsRequest{Cursor: cursor})
}

// ListAllTools follows cursors until every tool is listed
func (s *Session) ListAllTools(ctx context.Context) ([]protocol.Tool, error) {
	return pagination.CollectAll(ctx, func(ctx context.Context, cursor string) ([]protocol.Tool, string, error) {
		page, err := s.ListTools(ctx, cursor)
		return page.Tools, page.NextCursor, err
	})
}

// CallTool invokes a tool. args is marshaled to JSON unless it already is
// json.RawMessage; nil sends no arguments.
func (s *Session) CallTool(ctx context.Context, name string, args interface{}) (protocol.CallToolResult, error) {
	return s.callTool(ctx, protocol.RequestParams{}, name, args)
}

func (s *Session) callTool(ctx context.Context, params protocol.RequestParams, name string, args interface{}) (protocol.CallToolResult, error) {
	if err := s.require(protocol.CapabilityTools); err != nil {
		return protocol.CallToolResult{}, err
	}
	raw, err := marshalArguments(args)
	if err != nil {
		return protocol.CallToolResult{}, mcperrors.InvalidParams(protocol.MethodCallTool, err)
	}
	return call[protocol.CallToolResult](ctx, s, protocol.CallToolRequest{
		RequestParams: params,
		Name:          name,
		Arguments:     raw,
	})
}

func marshalArguments(args interface{}) (json.RawMessage, error) {
	switch v := args.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return v, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arguments: %w", err)
		}
		return raw, nil
	}
}

// ListResources fetches one page of resources
func (s *Session) ListResources(ctx context.Context, cursor string) (protocol.ListResourcesResult, error) {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return protocol.ListResourcesResult{}, err
	}
	return call[protocol.ListResourcesResult](ctx, s, protocol.ListResourcesRequest{Cursor: cursor})
}

// ListAllResources follows cursors until every resource is listed
func (s *Session) ListAllResources(ctx context.Context) ([]protocol.Resource, error) {
	return pagination.CollectAll(ctx, func(ctx context.Context, cursor string) ([]protocol.Resource, string, error) {
		page, err := s.ListResources(ctx, cursor)
		return page.Resources, page.NextCursor, err
	})
}

// ReadResource retrieves a resource by URI
func (s *Session) ReadResource(ctx context.Context, uri string) (protocol.ReadResourceResult, error) {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return protocol.ReadResourceResult{}, err
	}
	return call[protocol.ReadResourceResult](ctx, s, protocol.ReadResourceRequest{URI: uri})
}

// Subscribe asks for resources/updated notifications about uri. They reach
// the client's notification handler.
func (s *Session) Subscribe(ctx context.Context, uri string) error {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return err
	}
	_, err := call[protocol.EmptyResult](ctx, s, protocol.SubscribeRequest{URI: uri})
	return err
}

// Unsubscribe cancels a subscription
func (s *Session) Unsubscribe(ctx context.Context, uri string) error {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return err
	}
	_, err := call[protocol.EmptyResult](ctx, s, protocol.UnsubscribeRequest{URI: uri})
	return err
}

// ListPrompts fetches one page of prompts
func (s *Session) ListPrompts(ctx context.Context, cursor string) (protocol.ListPromptsResult, error) {
	if err := s.require(protocol.CapabilityPrompts); err != nil {
		return protocol.ListPromptsResult{}, err
	}
	return call[protocol.ListPromptsResult](ctx, s, protocol.ListPromptsRequest{Cursor: cursor})
}

// ListAllPrompts follows cursors until every prompt is listed
func (s *Session) ListAllPrompts(ctx context.Context) ([]protocol.Prompt, error) {
	return pagination.CollectAll(ctx, func(ctx context.Context, cursor string) ([]protocol.Prompt, string, error) {
		page, err := s.ListPrompts(ctx, cursor)
		return page.Prompts, page.NextCursor, err
	})
}

// GetPrompt renders a prompt with args
func (s *Session) GetPrompt(ctx context.Context, name string, args map[string]string) (protocol.GetPromptResult, error) {
	if err := s.require(protocol.CapabilityPrompts); err != nil {
		return protocol.GetPromptResult{}, err
	}
	return call[protocol.GetPromptResult](ctx, s, protocol.GetPromptRequest{Name: name, Arguments: args})
}

// SetLogLevel sets the minimum level of log messages the server sends
func (s *Session) SetLogLevel(ctx context.Context, level protocol.LogLevel) error {
	if err := s.require(protocol.CapabilityLogging); err != nil {
		return err
	}
	if !level.Valid() {
		return mcperrors.InvalidParams(protocol.MethodSetLogLevel, fmt.Errorf("unknown log level %q", level))
	}
	_, err := call[protocol.EmptyResult](ctx, s, protocol.SetLevelRequest{Level: level})
	return err
}
