package client

import (
	"context"
	"sync"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/session"
)

// ProgressHandler receives progress reported by the server for one request.
// Calls are serialized but, like all notifications, may arrive out of order.
type ProgressHandler func(protocol.ProgressNotification)

// Tokens are only unique within one session, so watches are keyed by both.
type progressKey struct {
	peer  *session.ClientPeer
	token protocol.ProgressToken
}

type progressRouter struct {
	mu       sync.Mutex
	handlers map[progressKey]*progressWatch
}

type progressWatch struct {
	mu sync.Mutex
	fn ProgressHandler
}

func newProgressRouter() *progressRouter {
	return &progressRouter{handlers: make(map[progressKey]*progressWatch)}
}

// watch routes notifications carrying token on peer to fn until the returned
// func is called.
func (r *progressRouter) watch(peer *session.ClientPeer, token protocol.ProgressToken, fn ProgressHandler) func() {
	key := progressKey{peer: peer, token: token}
	r.mu.Lock()
	r.handlers[key] = &progressWatch{fn: fn}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.handlers, key)
		r.mu.Unlock()
	}
}

func (r *progressRouter) dispatch(peer *session.ClientPeer, n protocol.ProgressNotification) {
	r.mu.Lock()
	w, ok := r.handlers[progressKey{peer: peer, token: n.ProgressToken}]
	r.mu.Unlock()
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fn(n)
}

// CallToolWithProgress invokes a tool and asks the server to report progress
// to fn while the call runs. Progress arriving after the result is dropped.
func (s *Session) CallToolWithProgress(ctx context.Context, name string, args interface{}, fn ProgressHandler) (protocol.CallToolResult, error) {
	token := s.peer.NextProgressToken()
	stop := s.client.progress.watch(s.peer, token, fn)
	defer stop()
	return s.callTool(ctx, protocol.WithProgressToken(token), name, args)
}
