package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
)

type addArgs struct {
	A int `json:"a" jsonschema:"description=First operand"`
	B int `json:"b" jsonschema:"description=Second operand"`
}

func addTool(t *testing.T) Tool {
	t.Helper()
	tool, err := NewTool("add", "Adds two numbers", func(ctx context.Context, args addArgs) (protocol.CallToolResult, error) {
		if args.A < 0 {
			return protocol.CallToolResult{}, errors.New("negative operand")
		}
		if args.B < 0 {
			return protocol.CallToolResult{}, mcperrors.InvalidParams(protocol.MethodCallTool, errors.New("b must be positive"))
		}
		return TextResult(jsonNumber(args.A + args.B)), nil
	})
	require.NoError(t, err)
	return tool
}

func jsonNumber(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

var testRC = service.RequestContext[service.RoleServer]{ID: protocol.NewNumber(1)}

func call(t *testing.T, s *Server, req protocol.ClientRequest) (protocol.ServerResult, error) {
	t.Helper()
	return s.HandleRequest(context.Background(), req, testRC)
}

func TestPing(t *testing.T) {
	result, err := call(t, New(), protocol.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, protocol.EmptyResult{}, result)
}

func TestGetInfo(t *testing.T) {
	s := New(
		WithName("calc"),
		WithVersion("2.0.0"),
		WithInstructions("add numbers"),
		WithTools(addTool(t)),
		WithCapability(protocol.CapabilityLogging, true),
	)

	info := s.GetInfo()
	assert.Equal(t, protocol.ProtocolRevision, info.ProtocolVersion)
	assert.Equal(t, protocol.Implementation{Name: "calc", Version: "2.0.0"}, info.ServerInfo)
	assert.Equal(t, "add numbers", info.Instructions)
	require.NotNil(t, info.Capabilities.Tools)
	assert.True(t, info.Capabilities.Tools.ListChanged)
	assert.NotNil(t, info.Capabilities.Logging)
	assert.Nil(t, info.Capabilities.Resources)
	assert.Nil(t, info.Capabilities.Prompts)

	if diff := cmp.Diff(info, s.GetInfo()); diff != "" {
		t.Errorf("GetInfo changed between calls (-first +second):\n%s", diff)
	}

	result, err := call(t, s, protocol.InitializeRequest{})
	require.NoError(t, err)
	assert.Equal(t, info, result)
}

func TestCapabilityRequired(t *testing.T) {
	s := New()
	requests := []protocol.ClientRequest{
		protocol.ListToolsRequest{},
		protocol.CallToolRequest{Name: "add"},
		protocol.ListResourcesRequest{},
		protocol.ReadResourceRequest{URI: "file:///a"},
		protocol.SubscribeRequest{URI: "file:///a"},
		protocol.ListPromptsRequest{},
		protocol.GetPromptRequest{Name: "p"},
		protocol.SetLevelRequest{Level: protocol.LogLevelDebug},
	}
	for _, req := range requests {
		t.Run(req.Method(), func(t *testing.T) {
			_, err := call(t, s, req)
			assert.True(t, mcperrors.IsCode(err, mcperrors.CodeCapabilityRequired), "got %v", err)
		})
	}
}

func TestNewToolSchema(t *testing.T) {
	tool := addTool(t)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(tool.Definition.InputSchema, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Equal(t, "First operand", props["a"].(map[string]interface{})["description"])
}

func TestCallTool(t *testing.T) {
	s := New(WithTools(addTool(t)))

	tests := []struct {
		name     string
		args     string
		want     protocol.CallToolResult
		wantCode int
	}{
		{name: "Success", args: `{"a":2,"b":3}`, want: TextResult("5")},
		{name: "ToolFailure", args: `{"a":-1,"b":3}`, want: ErrorResult("negative operand")},
		{name: "ProtocolFailure", args: `{"a":1,"b":-3}`, wantCode: mcperrors.CodeInvalidParams},
		{name: "UnknownArgument", args: `{"a":1,"c":3}`, wantCode: mcperrors.CodeInvalidParams},
		{name: "WrongType", args: `{"a":"one"}`, wantCode: mcperrors.CodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := call(t, s, protocol.CallToolRequest{Name: "add", Arguments: json.RawMessage(tt.args)})
			if tt.wantCode != 0 {
				assert.True(t, mcperrors.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}

	_, err := call(t, s, protocol.CallToolRequest{Name: "missing"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeResourceNotFound), "got %v", err)
}

func TestCallToolPassesCancellation(t *testing.T) {
	blocking := MustTool("wait", "Waits for cancellation", func(ctx context.Context, _ struct{}) (protocol.CallToolResult, error) {
		<-ctx.Done()
		return protocol.CallToolResult{}, ctx.Err()
	})
	s := New(WithTools(blocking))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.HandleRequest(ctx, protocol.CallToolRequest{Name: "wait"}, testRC)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListToolsPaginates(t *testing.T) {
	var tools []Tool
	for _, name := range []string{"delta", "alpha", "echo", "charlie", "bravo"} {
		tools = append(tools, MustTool(name, "", func(context.Context, struct{}) (protocol.CallToolResult, error) {
			return TextResult(""), nil
		}))
	}
	s := New(WithTools(tools...), WithPageSize(2))

	var names []string
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		result, err := call(t, s, protocol.ListToolsRequest{Cursor: cursor})
		require.NoError(t, err)
		page := result.(protocol.ListToolsResult)
		for _, tool := range page.Tools {
			names = append(names, tool.Name)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, names)

	_, err := call(t, s, protocol.ListToolsRequest{Cursor: "garbage!"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidParams), "got %v", err)
}

func TestResources(t *testing.T) {
	s := New(WithResources(
		TextResource("file:///b.txt", "b", "text/plain", "bee"),
		TextResource("file:///a.txt", "a", "text/plain", "ay"),
	))

	result, err := call(t, s, protocol.ListResourcesRequest{})
	require.NoError(t, err)
	list := result.(protocol.ListResourcesResult)
	require.Len(t, list.Resources, 2)
	assert.Equal(t, "file:///a.txt", list.Resources[0].URI)
	assert.Empty(t, list.NextCursor)

	result, err = call(t, s, protocol.ReadResourceRequest{URI: "file:///b.txt"})
	require.NoError(t, err)
	assert.Equal(t, protocol.ReadResourceResult{Contents: []protocol.ResourceContents{
		{URI: "file:///b.txt", MimeType: "text/plain", Text: "bee"},
	}}, result)

	_, err = call(t, s, protocol.ReadResourceRequest{URI: "file:///c.txt"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeResourceNotFound), "got %v", err)

	// Subscriptions need a session to deliver to.
	_, err = call(t, s, protocol.SubscribeRequest{URI: "file:///a.txt"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidRequest), "got %v", err)

	assert.True(t, s.RemoveResource("file:///a.txt"))
	assert.False(t, s.RemoveResource("file:///a.txt"))
}

func TestPrompts(t *testing.T) {
	review := Prompt{
		Definition: protocol.Prompt{
			Name:      "review",
			Arguments: []protocol.PromptArgument{{Name: "code", Required: true}, {Name: "style"}},
		},
		Handler: func(ctx context.Context, args map[string]string) (protocol.GetPromptResult, error) {
			return protocol.GetPromptResult{Messages: []protocol.PromptMessage{
				{Role: "user", Content: protocol.NewTextContent("Review: " + args["code"])},
			}}, nil
		},
	}
	s := New(WithPrompts(review))

	result, err := call(t, s, protocol.ListPromptsRequest{})
	require.NoError(t, err)
	assert.Len(t, result.(protocol.ListPromptsResult).Prompts, 1)

	result, err = call(t, s, protocol.GetPromptRequest{Name: "review", Arguments: map[string]string{"code": "x := 1"}})
	require.NoError(t, err)
	assert.Equal(t, "Review: x := 1", result.(protocol.GetPromptResult).Messages[0].Content.Text)

	_, err = call(t, s, protocol.GetPromptRequest{Name: "review"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidParams), "got %v", err)

	_, err = call(t, s, protocol.GetPromptRequest{Name: "other"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeResourceNotFound), "got %v", err)
}

func TestSetLevelValidates(t *testing.T) {
	s := New(WithCapability(protocol.CapabilityLogging, true))

	_, err := call(t, s, protocol.SetLevelRequest{Level: "verbose"})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidParams), "got %v", err)

	_, err = call(t, s, protocol.SetLevelRequest{Level: protocol.LogLevelDebug})
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidRequest), "got %v", err)
}

func TestLogWithoutCapability(t *testing.T) {
	err := New().Log(context.Background(), protocol.LogLevelInfo, "", "hello")
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeCapabilityRequired), "got %v", err)

	err = New(WithCapability(protocol.CapabilityLogging, true)).Log(context.Background(), "loud", "", "hello")
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidParams), "got %v", err)
}
