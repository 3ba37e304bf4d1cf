// Package service defines the contract between an MCP endpoint and the code
// that answers its peer.
//
// An endpoint plays one of two roles. RoleClient opens a session and sends
// client requests; RoleServer accepts it and sends server requests. A role
// fixes the eight payload shapes the endpoint exchanges, and the generic
// Service interface is parameterized by the role and its shapes, so handlers
// written for one role cannot be wired to the other:
//
//	type echo struct{}
//
//	func (echo) HandleRequest(ctx context.Context, req protocol.ClientRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
//	    switch req.(type) {
//	    case protocol.PingRequest:
//	        return protocol.EmptyResult{}, nil
//	    }
//	    return nil, errors.MethodNotFound(req.Method())
//	}
//
//	func (echo) HandleNotification(ctx context.Context, n protocol.ClientNotification) error { return nil }
//	func (echo) GetInfo() protocol.ServerInfo { return protocol.ServerInfo{} }
//
//	var _ service.ServerService = echo{}
//
// # Type Erasure
//
// DynService has the same operations but returns a Future from the handling
// operations. DynClient and DynServer wrap a concrete service; the result is
// storable in a Registry next to services of other concrete types.
//
// # Identifiers
//
// RequestIDProvider and ProgressTokenProvider issue ids for outgoing requests
// and progress reports. AtomicProvider counts from 0 on a shared 32-bit
// counter; UUIDProvider issues random strings.
package service
