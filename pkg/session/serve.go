package session

import (
	"context"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// ServeClient opens a session as the client: it sends initialize with
// svc.GetInfo(), records the server's answer and confirms with
// notifications/initialized. On failure the session is closed. ctx bounds
// the whole session, not just the handshake.
func ServeClient(ctx context.Context, t transport.Transport, svc service.ClientService, opts ...Option) (*ClientPeer, error) {
	p := StartClient(ctx, t, svc, opts...)

	info := svc.GetInfo()
	if info.ProtocolVersion == "" {
		info.ProtocolVersion = protocol.ProtocolRevision
	}

	result, err := p.SendRequest(ctx, protocol.InitializeRequest{InitializeRequestParams: info})
	if err != nil {
		_ = p.Close()
		return nil, mcperrors.InitializationFailed("initialize request failed", err)
	}
	serverInfo, ok := result.(protocol.InitializeResult)
	if !ok {
		_ = p.Close()
		return nil, mcperrors.ProtocolError(fmt.Sprintf("unexpected initialize result %T", result))
	}
	if serverInfo.ProtocolVersion != info.ProtocolVersion {
		p.logger.Warn("server negotiated a different protocol revision",
			logging.String("requested", info.ProtocolVersion),
			logging.String("negotiated", serverInfo.ProtocolVersion),
		)
	}
	p.setPeerInfo(serverInfo)

	if err := p.SendNotification(ctx, protocol.InitializedNotification{}); err != nil {
		_ = p.Close()
		return nil, mcperrors.InitializationFailed("sending initialized notification failed", err)
	}
	p.markInitialized()

	p.logger.Info("session initialized",
		logging.String("server", serverInfo.ServerInfo.Name),
		logging.String("version", serverInfo.ServerInfo.Version),
	)
	return p, nil
}

// ServeServer accepts a session as the server. It answers initialize with
// svc.GetInfo(), records the client's info and returns once the client has
// sent notifications/initialized. Until then the server only answers
// initialize and ping.
func ServeServer(ctx context.Context, t transport.Transport, svc service.ServerService, opts ...Option) (*ServerPeer, error) {
	p := StartServer(ctx, t, serverHandshake{svc}, opts...)

	select {
	case <-p.initializedCh:
		if info, ok := p.PeerInfo(); ok {
			p.logger.Info("session initialized",
				logging.String("client", info.ClientInfo.Name),
				logging.String("version", info.ClientInfo.Version),
			)
		}
		return p, nil
	case <-p.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, mcperrors.InitializationFailed("session ended before initialization", p.Err())
	case <-ctx.Done():
		_ = p.Close()
		return nil, ctx.Err()
	}
}

// serverHandshake answers initialize on behalf of the wrapped service
type serverHandshake struct {
	service.ServerService
}

func (h serverHandshake) inner() any { return h.ServerService }

func (h serverHandshake) HandleRequest(ctx context.Context, req protocol.ClientRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
	ir, ok := req.(protocol.InitializeRequest)
	if !ok {
		return h.ServerService.HandleRequest(ctx, req, rc)
	}

	p, ok := ServerPeerFromContext(ctx)
	if !ok {
		return nil, mcperrors.InternalError(protocol.MethodInitialize, fmt.Errorf("no session on context"))
	}
	if !p.setPeerInfo(ir.InitializeRequestParams) {
		return nil, mcperrors.InvalidRequest("initialize was already received")
	}

	info := h.GetInfo()
	if info.ProtocolVersion == "" {
		info.ProtocolVersion = protocol.ProtocolRevision
	}
	return info, nil
}
