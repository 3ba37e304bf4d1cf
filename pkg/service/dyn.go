package service

import (
	"context"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

// DynService is the type-erased form of Service. Its handling operations
// return immediately with a Future, so services with different concrete types
// can be stored and driven uniformly.
//
// Outcomes are identical to calling the wrapped Service directly.
type DynService[
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
	HandleRequest(ctx context.Context, request PeerReq, rc RequestContext[R]) *Future[Resp]
	HandleNotification(ctx context.Context, notification PeerNot) *Future[struct{}]
	GetInfo() Info
}

// DynClientService is the type-erased ClientService
type DynClientService = DynService[
	RoleClient,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientInfo, protocol.ServerInfo,
]

// DynServerService is the type-erased ServerService
type DynServerService = DynService[
	RoleServer,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerInfo, protocol.ClientInfo,
]

type dynService[
	R Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
] struct {
	inner Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]
}

// IntoDyn erases the concrete type of svc. Type arguments are only inferred
// when svc is already typed as a Service instantiation; DynClient and
// DynServer accept concrete service types directly.
func IntoDyn[
	R Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
](svc Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) DynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo] {
	return &dynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]{inner: svc}
}

// DynClient erases a client service
func DynClient(svc ClientService) DynClientService {
	return IntoDyn(svc)
}

// DynServer erases a server service
func DynServer(svc ServerService) DynServerService {
	return IntoDyn(svc)
}

func (d *dynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) HandleRequest(ctx context.Context, request PeerReq, rc RequestContext[R]) *Future[Resp] {
	return Go(func() (Resp, error) {
		return d.inner.HandleRequest(ctx, request, rc)
	})
}

func (d *dynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) HandleNotification(ctx context.Context, notification PeerNot) *Future[struct{}] {
	return Go(func() (struct{}, error) {
		return struct{}{}, d.inner.HandleNotification(ctx, notification)
	})
}

func (d *dynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) GetInfo() Info {
	return d.inner.GetInfo()
}

type fromDyn[
	R Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
] struct {
	inner DynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]
}

// FromDyn adapts a DynService back into a Service so it can be served by a
// session. Each call waits for the future it starts.
func FromDyn[
	R Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
](svc DynService[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo] {
	return &fromDyn[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]{inner: svc}
}

func (s *fromDyn[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) HandleRequest(ctx context.Context, request PeerReq, rc RequestContext[R]) (Resp, error) {
	return s.inner.HandleRequest(ctx, request, rc).Wait()
}

func (s *fromDyn[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) HandleNotification(ctx context.Context, notification PeerNot) error {
	_, err := s.inner.HandleNotification(ctx, notification).Wait()
	return err
}

func (s *fromDyn[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) GetInfo() Info {
	return s.inner.GetInfo()
}
