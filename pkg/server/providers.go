package server

import (
	"context"
	"encoding/json"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/utils"
)

// ToolHandler runs a tool with the raw arguments of a tools/call request.
//
// A returned MCPError or context error becomes a JSON-RPC error response.
// Any other error is reported to the caller as a result with IsError set.
type ToolHandler func(ctx context.Context, arguments json.RawMessage) (protocol.CallToolResult, error)

// Tool is a registered tool
type Tool struct {
	Definition protocol.Tool
	Handler    ToolHandler
}

// NewTool builds a tool whose arguments decode into A. The input schema is
// reflected from A and unknown arguments are rejected.
func NewTool[A any](name, description string, fn func(ctx context.Context, args A) (protocol.CallToolResult, error)) (Tool, error) {
	if name == "" {
		return Tool{}, fmt.Errorf("tool name must not be empty")
	}
	schema, err := utils.GenerateJSONSchema[A](false)
	if err != nil {
		return Tool{}, fmt.Errorf("tool %s: %w", name, err)
	}

	return Tool{
		Definition: protocol.Tool{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (protocol.CallToolResult, error) {
			var args A
			if err := utils.DecodeArguments(raw, &args, false); err != nil {
				return protocol.CallToolResult{}, mcperrors.InvalidParams(protocol.MethodCallTool, err)
			}
			return fn(ctx, args)
		},
	}, nil
}

// MustTool is NewTool that panics on error. It suits package-level tool
// definitions whose argument type is known to reflect.
func MustTool[A any](name, description string, fn func(ctx context.Context, args A) (protocol.CallToolResult, error)) Tool {
	t, err := NewTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// TextResult is a successful tool result holding one text block
func TextResult(text string) protocol.CallToolResult {
	return protocol.CallToolResult{Content: []protocol.TextContent{protocol.NewTextContent(text)}}
}

// ErrorResult is a failed tool result holding one text block
func ErrorResult(text string) protocol.CallToolResult {
	return protocol.CallToolResult{Content: []protocol.TextContent{protocol.NewTextContent(text)}, IsError: true}
}

// ResourceHandler reads the contents of a resource
type ResourceHandler func(ctx context.Context, uri string) ([]protocol.ResourceContents, error)

// Resource is a registered resource
type Resource struct {
	Definition protocol.Resource
	Handler    ResourceHandler
}

// TextResource is a resource with fixed text contents
func TextResource(uri, name, mimeType, text string) Resource {
	return Resource{
		Definition: protocol.Resource{URI: uri, Name: name, MimeType: mimeType},
		Handler: func(ctx context.Context, uri string) ([]protocol.ResourceContents, error) {
			return []protocol.ResourceContents{{URI: uri, MimeType: mimeType, Text: text}}, nil
		},
	}
}

// PromptHandler renders a prompt with the caller's arguments
type PromptHandler func(ctx context.Context, arguments map[string]string) (protocol.GetPromptResult, error)

// Prompt is a registered prompt
type Prompt struct {
	Definition protocol.Prompt
	Handler    PromptHandler
}

// missingArgument returns the first required argument absent from args
func (p Prompt) missingArgument(args map[string]string) (string, bool) {
	for _, a := range p.Definition.Arguments {
		if !a.Required {
			continue
		}
		if _, ok := args[a.Name]; !ok {
			return a.Name, true
		}
	}
	return "", false
}
