package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// rootsClient answers ping and roots/list and records server notifications.
type rootsClient struct {
	notes chan protocol.ServerNotification
}

func newRootsClient() *rootsClient {
	return &rootsClient{notes: make(chan protocol.ServerNotification, 16)}
}

func (c *rootsClient) HandleRequest(ctx context.Context, req protocol.ServerRequest, rc service.RequestContext[service.RoleClient]) (protocol.ClientResult, error) {
	switch req.(type) {
	case protocol.PingRequest:
		return protocol.EmptyResult{}, nil
	case protocol.ListRootsRequest:
		return protocol.ListRootsResult{Roots: []protocol.Root{
			{URI: "file:///src", Name: "src"},
			{URI: "file:///docs", Name: "docs"},
		}}, nil
	default:
		return nil, mcperrors.OperationNotSupported(req.Method())
	}
}

func (c *rootsClient) HandleNotification(ctx context.Context, n protocol.ServerNotification) error {
	select {
	case c.notes <- n:
	default:
	}
	return nil
}

func (c *rootsClient) GetInfo() protocol.ClientInfo {
	return protocol.ClientInfo{
		ProtocolVersion: protocol.ProtocolRevision,
		ClientInfo:      protocol.Implementation{Name: "test-client", Version: "1.0.0"},
	}
}

// toolServer serves a handful of tools that exercise the session runtime.
type toolServer struct {
	started  chan protocol.RequestID
	observed chan error
	notes    chan protocol.ClientNotification
}

func newToolServer() *toolServer {
	return &toolServer{
		started:  make(chan protocol.RequestID, 4),
		observed: make(chan error, 4),
		notes:    make(chan protocol.ClientNotification, 16),
	}
}

func (s *toolServer) HandleRequest(ctx context.Context, req protocol.ClientRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
	switch r := req.(type) {
	case protocol.PingRequest:
		return protocol.EmptyResult{}, nil
	case protocol.ListToolsRequest:
		return protocol.ListToolsResult{}, nil
	case protocol.CallToolRequest:
		return s.callTool(ctx, r, rc)
	default:
		return nil, mcperrors.OperationNotSupported(req.Method())
	}
}

func (s *toolServer) callTool(ctx context.Context, req protocol.CallToolRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
	switch req.Name {
	case "block":
		s.started <- rc.ID
		<-ctx.Done()
		s.observed <- ctx.Err()
		return nil, ctx.Err()
	case "progress":
		if err := ReportProgress(ctx, 1, 2, "halfway"); err != nil {
			return nil, err
		}
		return protocol.CallToolResult{Content: []protocol.TextContent{protocol.NewTextContent("done")}}, nil
	case "roots":
		peer, ok := ServerPeerFromContext(ctx)
		if !ok {
			return nil, fmt.Errorf("no peer on context")
		}
		result, err := peer.SendRequest(ctx, protocol.ListRootsRequest{})
		if err != nil {
			return nil, err
		}
		roots := result.(protocol.ListRootsResult).Roots
		return protocol.CallToolResult{Content: []protocol.TextContent{
			protocol.NewTextContent(fmt.Sprintf("%d roots", len(roots))),
		}}, nil
	case "panic":
		panic("tool exploded")
	default:
		return nil, mcperrors.ResourceNotFound("tool", req.Name)
	}
}

func (s *toolServer) HandleNotification(ctx context.Context, n protocol.ClientNotification) error {
	select {
	case s.notes <- n:
	default:
	}
	if _, ok := n.(protocol.RootsListChangedNotification); ok {
		return fmt.Errorf("roots are not tracked")
	}
	return nil
}

func (s *toolServer) GetInfo() protocol.ServerInfo {
	return protocol.ServerInfo{
		ProtocolVersion: protocol.ProtocolRevision,
		Capabilities:    protocol.ServerCapabilities{Tools: &protocol.ListChangedCapability{}},
		ServerInfo:      protocol.Implementation{Name: "test-server", Version: "1.0.0"},
	}
}

// connect runs both handshakes over an in-memory pipe.
func connect(t *testing.T, cli service.ClientService, srv service.ServerService) (*ClientPeer, *ServerPeer) {
	t.Helper()

	clientSide, serverSide := transport.NewPipe()

	type served struct {
		peer *ServerPeer
		err  error
	}
	serverCh := make(chan served, 1)
	go func() {
		p, err := ServeServer(context.Background(), serverSide, srv)
		serverCh <- served{p, err}
	}()

	// The session lives as long as the context passed to ServeClient.
	clientPeer, err := ServeClient(context.Background(), clientSide, cli)
	require.NoError(t, err)

	var s served
	select {
	case s = <-serverCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server handshake did not finish")
	}
	require.NoError(t, s.err)

	t.Cleanup(func() {
		_ = clientPeer.Close()
		_ = s.peer.Close()
	})
	return clientPeer, s.peer
}

// rawServer starts ServeServer and returns the client end of the pipe for
// speaking JSON-RPC by hand.
func rawServer(t *testing.T, srv service.ServerService) (transport.Transport, <-chan *ServerPeer) {
	t.Helper()

	clientSide, serverSide := transport.NewPipe()
	peers := make(chan *ServerPeer, 1)
	go func() {
		p, err := ServeServer(context.Background(), serverSide, srv)
		if err == nil {
			peers <- p
		}
	}()
	t.Cleanup(func() { _ = clientSide.Close() })
	return clientSide, peers
}

func send(t *testing.T, tr transport.Transport, msg string) {
	t.Helper()
	require.NoError(t, tr.Send(context.Background(), []byte(msg)))
}

func receive(t *testing.T, tr transport.Transport) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := tr.Receive(ctx)
	require.NoError(t, err)
	return string(msg)
}

const (
	rawInitialize  = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"raw","version":"0.1"}}}`
	rawInitialized = `{"jsonrpc":"2.0","method":"notifications/initialized"}`
)
