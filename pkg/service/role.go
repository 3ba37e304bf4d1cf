package service

import (
	"encoding/json"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

// Role binds an endpoint to the eight payload shapes it exchanges: the
// requests, results and notifications it sends (Req, Resp, Not), the ones its
// peer sends (PeerReq, PeerResp, PeerNot), and the info records of both sides.
//
// Role is sealed. RoleClient and RoleServer are its only implementations, so
// an instantiation that puts a server shape into a client slot does not
// compile.
type Role[
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
] interface {
	// IsClient is constant for a role
	IsClient() bool
	String() string

	// Cancellation converts this role's outgoing notifications
	Cancellation() protocol.CancelConverter[Not]
	// PeerCancellation converts the peer's notifications
	PeerCancellation() protocol.CancelConverter[PeerNot]

	DecodePeerRequest(method string, params json.RawMessage) (PeerReq, error)
	DecodePeerNotification(method string, params json.RawMessage) (PeerNot, error)
	// DecodePeerResponse decodes the peer's result to req
	DecodePeerResponse(req Req, result json.RawMessage) (PeerResp, error)

	roleShapes(Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo)
}

// RoleClient is the role of the endpoint that opens a session
type RoleClient struct{}

var _ Role[
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientInfo, protocol.ServerInfo,
] = RoleClient{}

func (RoleClient) IsClient() bool { return true }
func (RoleClient) String() string { return "client" }

func (RoleClient) Cancellation() protocol.CancelConverter[protocol.ClientNotification] {
	return protocol.ClientNotifications{}
}

func (RoleClient) PeerCancellation() protocol.CancelConverter[protocol.ServerNotification] {
	return protocol.ServerNotifications{}
}

func (RoleClient) DecodePeerRequest(method string, params json.RawMessage) (protocol.ServerRequest, error) {
	return protocol.DecodeServerRequest(method, params)
}

func (RoleClient) DecodePeerNotification(method string, params json.RawMessage) (protocol.ServerNotification, error) {
	return protocol.DecodeServerNotification(method, params)
}

func (RoleClient) DecodePeerResponse(req protocol.ClientRequest, result json.RawMessage) (protocol.ServerResult, error) {
	return protocol.DecodeServerResult(req.Method(), result)
}

func (RoleClient) roleShapes(
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientInfo, protocol.ServerInfo,
) {
}

// RoleServer is the role of the endpoint that accepts a session
type RoleServer struct{}

var _ Role[
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerInfo, protocol.ClientInfo,
] = RoleServer{}

func (RoleServer) IsClient() bool { return false }
func (RoleServer) String() string { return "server" }

func (RoleServer) Cancellation() protocol.CancelConverter[protocol.ServerNotification] {
	return protocol.ServerNotifications{}
}

func (RoleServer) PeerCancellation() protocol.CancelConverter[protocol.ClientNotification] {
	return protocol.ClientNotifications{}
}

func (RoleServer) DecodePeerRequest(method string, params json.RawMessage) (protocol.ClientRequest, error) {
	return protocol.DecodeClientRequest(method, params)
}

func (RoleServer) DecodePeerNotification(method string, params json.RawMessage) (protocol.ClientNotification, error) {
	return protocol.DecodeClientNotification(method, params)
}

func (RoleServer) DecodePeerResponse(req protocol.ServerRequest, result json.RawMessage) (protocol.ClientResult, error) {
	return protocol.DecodeClientResult(req.Method(), result)
}

func (RoleServer) roleShapes(
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerInfo, protocol.ClientInfo,
) {
}

// IsClient reports whether R is the client role without needing a value of R
func IsClient[R interface{ IsClient() bool }]() bool {
	var r R
	return r.IsClient()
}
