package service

import (
	"context"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

// RequestContext accompanies every request delivered to a Service. It is a
// value owned by the dispatch call; R ties it to the role that received the
// request.
type RequestContext[R any] struct {
	// ID is the id the peer assigned to the request
	ID protocol.RequestID
	// Meta is the request's _meta object, nil if none was sent
	Meta *protocol.RequestMeta
}

// NewRequestContext builds the context for a request received with id
func NewRequestContext[R any](id protocol.RequestID, req protocol.Request) RequestContext[R] {
	rc := RequestContext[R]{ID: id}
	if req != nil {
		rc.Meta = req.GetMeta()
	}
	return rc
}

// ProgressToken returns the token the peer supplied for progress reports
func (rc RequestContext[R]) ProgressToken() (protocol.ProgressToken, bool) {
	if rc.Meta == nil || rc.Meta.ProgressToken == nil {
		return protocol.ProgressToken{}, false
	}
	return *rc.Meta.ProgressToken, true
}

// Service handles the messages a peer sends to an endpoint of role R.
//
// HandleRequest produces exactly one outcome per call: a result, which is sent
// back to the peer, or an error, which is sent as a JSON-RPC error response.
// ctx is cancelled when the peer cancels the request or the session ends.
//
// HandleNotification never produces a reply. A returned error is only logged.
//
// GetInfo describes the endpoint and is sent during initialization. It should
// return the same value on every call unless the service is reconfigured.
type Service[
	R Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
] interface {
	HandleRequest(ctx context.Context, request PeerReq, rc RequestContext[R]) (Resp, error)
	HandleNotification(ctx context.Context, notification PeerNot) error
	GetInfo() Info
}

// ClientService is a service for the client role: it handles server requests
// and notifications.
type ClientService = Service[
	RoleClient,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientInfo, protocol.ServerInfo,
]

// ServerService is a service for the server role: it handles client requests
// and notifications.
type ServerService = Service[
	RoleServer,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerInfo, protocol.ClientInfo,
]
