package session

import (
	"context"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
)

type progressNotifier interface {
	NotifyProgress(ctx context.Context, token protocol.ProgressToken, progress, total float64, message string) error
}

type scopeKey struct{}

// requestScope is attached to the context of every request and notification
// a peer serves. Notifications carry no id or token.
type requestScope struct {
	peer     interface{}
	notifier progressNotifier
	id       protocol.RequestID
	hasID    bool
	token    protocol.ProgressToken
	hasToken bool
}

func withRequestScope(ctx context.Context, scope *requestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func scopeFrom(ctx context.Context) (*requestScope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*requestScope)
	return scope, ok
}

// ReportProgress sends a progress notification for the request being served
// on ctx. It does nothing when the requester did not ask for progress.
func ReportProgress(ctx context.Context, progress, total float64, message string) error {
	scope, ok := scopeFrom(ctx)
	if !ok || !scope.hasToken {
		return nil
	}
	return scope.notifier.NotifyProgress(ctx, scope.token, progress, total, message)
}

// RequestIDFromContext returns the id of the request being served on ctx
func RequestIDFromContext(ctx context.Context) (protocol.RequestID, bool) {
	scope, ok := scopeFrom(ctx)
	if !ok || !scope.hasID {
		return protocol.RequestID{}, false
	}
	return scope.id, true
}

// ServerPeerFromContext returns the server peer serving the request or
// notification on ctx.
// Handlers use it to send requests back to the client, such as sampling.
func ServerPeerFromContext(ctx context.Context) (*ServerPeer, bool) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return nil, false
	}
	p, ok := scope.peer.(*ServerPeer)
	return p, ok
}

// ClientPeerFromContext returns the client peer serving the request on ctx
func ClientPeerFromContext(ctx context.Context) (*ClientPeer, bool) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return nil, false
	}
	p, ok := scope.peer.(*ClientPeer)
	return p, ok
}
