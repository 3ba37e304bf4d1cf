package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// Peer runs one end of an MCP session over a Transport. It decodes what the
// other side sends with the role's vocabulary, hands requests and
// notifications to the Service, and correlates responses to the requests it
// sends itself.
//
// Each incoming request is served on its own goroutine with a context that is
// cancelled when the peer sends notifications/cancelled for it or the session
// ends.
type Peer[
	R service.Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
] struct {
	role      R
	service   service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]
	transport transport.Transport
	ids       service.RequestIDProvider
	tokens    service.ProgressTokenProvider
	logger    logging.Logger
	sessionID string

	mu       sync.Mutex
	pending  map[protocol.RequestID]*pendingRequest
	inflight map[protocol.RequestID]*inflightRequest
	peerInfo *PeerInfo

	initialized   atomic.Bool
	initializedCh chan struct{}
	initOnce      sync.Once

	ctx       context.Context
	cancel    context.CancelFunc
	group     *errgroup.Group
	done      chan struct{}
	err       error
	closeOnce sync.Once
}

// ClientPeer is the client end of a session
type ClientPeer = Peer[
	service.RoleClient,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientInfo, protocol.ServerInfo,
]

// ServerPeer is the server end of a session
type ServerPeer = Peer[
	service.RoleServer,
	protocol.ServerRequest, protocol.ServerResult, protocol.ServerNotification,
	protocol.ClientRequest, protocol.ClientResult, protocol.ClientNotification,
	protocol.ServerInfo, protocol.ClientInfo,
]

type pendingRequest struct {
	method string
	ch     chan *protocol.JSONRPCResponse
}

type inflightRequest struct {
	cancel          context.CancelFunc
	cancelledByPeer bool
}

// Start runs a peer for svc over t until ctx is cancelled, the transport
// ends, or Close is called. It performs no handshake; ServeClient and
// ServeServer do.
func Start[
	R service.Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
](
	ctx context.Context,
	t transport.Transport,
	svc service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	opts ...Option,
) *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo] {
	o := buildOptions(opts)

	var role R
	sessionID := logging.NewCorrelationID()

	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)

	p := &Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]{
		role:      role,
		service:   svc,
		transport: t,
		ids:       o.ids,
		tokens:    o.tokens,
		sessionID: sessionID,
		logger: o.logger.WithFields(
			logging.String(logging.KeySessionID, sessionID),
			logging.String(logging.KeyRole, role.String()),
		),
		pending:       make(map[protocol.RequestID]*pendingRequest),
		inflight:      make(map[protocol.RequestID]*inflightRequest),
		initializedCh: make(chan struct{}),
		ctx:           gctx,
		cancel:        cancel,
		group:         group,
		done:          make(chan struct{}),
	}

	group.Go(p.readLoop)
	go func() {
		err := group.Wait()
		p.cancel()
		p.finish(err)
	}()

	p.logger.Debug("session started")
	return p
}

// StartClient runs a peer for a client service
func StartClient(ctx context.Context, t transport.Transport, svc service.ClientService, opts ...Option) *ClientPeer {
	return Start(ctx, t, svc, opts...)
}

// StartServer runs a peer for a server service
func StartServer(ctx context.Context, t transport.Transport, svc service.ServerService, opts ...Option) *ServerPeer {
	return Start(ctx, t, svc, opts...)
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) readLoop() error {
	defer p.cancel()
	defer p.transport.Close()

	for {
		data, err := p.transport.Receive(p.ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || p.ctx.Err() != nil {
				return nil
			}
			return err
		}
		p.handleMessage(data)
	}
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) handleMessage(data []byte) {
	env, err := protocol.ParseEnvelope(data)
	if err != nil {
		p.logger.WithError(mcperrors.ParseError(err)).Warn("dropping malformed message")
		return
	}

	switch env.Kind() {
	case protocol.KindRequest:
		p.handleRequest(*env.ID, env.Method, env.Params)
	case protocol.KindNotification:
		p.handleNotification(env.Method, env.Params)
	case protocol.KindResponse:
		p.handleResponse(env.Response())
	default:
		if env.ID != nil {
			p.sendError(*env.ID, env.Method, mcperrors.InvalidRequest("not a JSON-RPC 2.0 request, notification or response"))
			return
		}
		p.logger.Warn("dropping invalid message", logging.Int("bytes", len(data)))
	}
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) handleRequest(id protocol.RequestID, method string, params json.RawMessage) {
	req, err := p.role.DecodePeerRequest(method, params)
	if err != nil {
		p.sendError(id, method, mcperrors.FromDecodeError(method, err))
		return
	}

	if !p.role.IsClient() && !p.initialized.Load() &&
		method != protocol.MethodInitialize && method != protocol.MethodPing {
		p.sendError(id, method, mcperrors.ServerNotReady("session is not initialized"))
		return
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.mu.Lock()
	if _, dup := p.inflight[id]; dup {
		p.mu.Unlock()
		cancel()
		p.sendError(id, method, mcperrors.InvalidRequest(fmt.Sprintf("request id %s is already in flight", id)))
		return
	}
	p.inflight[id] = &inflightRequest{cancel: cancel}
	p.mu.Unlock()

	rc := service.NewRequestContext[R](id, req)
	ctx = logging.ContextWithRequestID(ctx, id.String())
	token, hasToken := rc.ProgressToken()
	ctx = withRequestScope(ctx, &requestScope{peer: p, notifier: p, id: id, hasID: true, token: token, hasToken: hasToken})

	p.group.Go(func() error {
		result, err := p.serveRequest(ctx, req, rc)

		p.mu.Lock()
		entry := p.inflight[id]
		delete(p.inflight, id)
		p.mu.Unlock()
		cancel()

		if entry != nil && entry.cancelledByPeer {
			p.logger.Debug("dropping response to cancelled request", logging.Method(method), logging.RequestID(id))
			return nil
		}
		if err != nil {
			p.sendError(id, method, err)
			return nil
		}
		p.sendResult(id, method, result)
		return nil
	})
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) serveRequest(ctx context.Context, req PeerReq, rc service.RequestContext[R]) (result Resp, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("request handler panicked",
				logging.Method(req.Method()),
				logging.RequestID(rc.ID),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
			err = mcperrors.InternalError(req.Method(), fmt.Errorf("handler panicked: %v", r))
		}
	}()
	return p.service.HandleRequest(ctx, req, rc)
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) handleNotification(method string, params json.RawMessage) {
	n, err := p.role.DecodePeerNotification(method, params)
	if err != nil {
		p.logger.WithError(err).Debug("ignoring notification", logging.Method(method))
		return
	}

	if c, err := p.role.PeerCancellation().TryIntoCancelled(n); err == nil {
		p.cancelInflight(c)
	}
	if method == protocol.MethodInitialized {
		p.markInitialized()
	}

	ctx := withRequestScope(p.ctx, &requestScope{peer: p, notifier: p})
	p.group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("notification handler panicked",
					logging.Method(method),
					logging.Any("panic", r),
					logging.String("stack", string(debug.Stack())),
				)
			}
		}()
		if err := p.service.HandleNotification(ctx, n); err != nil {
			p.logger.WithError(err).Warn("notification handler failed", logging.Method(method))
		}
		return nil
	})
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) cancelInflight(c protocol.CancelledNotification) {
	p.mu.Lock()
	entry, ok := p.inflight[c.RequestID]
	if ok {
		entry.cancelledByPeer = true
	}
	p.mu.Unlock()

	if !ok {
		p.logger.Debug("cancellation for unknown request", logging.RequestID(c.RequestID))
		return
	}
	p.logger.Info("request cancelled by peer", logging.RequestID(c.RequestID), logging.String("reason", c.Reason))
	entry.cancel()
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) handleResponse(resp *protocol.JSONRPCResponse) {
	p.mu.Lock()
	pr, ok := p.pending[resp.ID]
	if ok {
		delete(p.pending, resp.ID)
	}
	p.mu.Unlock()

	if !ok {
		p.logger.Warn("response for unknown request", logging.RequestID(resp.ID))
		return
	}
	pr.ch <- resp
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) sendResult(id protocol.RequestID, method string, result Resp) {
	resp, err := protocol.NewResponse(id, result)
	if err != nil {
		p.sendError(id, method, mcperrors.InternalError(method, err))
		return
	}
	p.write(resp, method)
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) sendError(id protocol.RequestID, method string, err error) {
	rpcErr := mcperrors.ToJSONRPCError(err)
	p.logger.WithError(err).Debug("request failed", logging.Method(method), logging.RequestID(id))
	p.write(protocol.NewErrorResponse(id, rpcErr), method)
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) write(msg interface{}, method string) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.WithError(err).Error("failed to encode message", logging.Method(method))
		return
	}
	if err := p.transport.Send(p.ctx, data); err != nil {
		p.logger.WithError(err).Warn("failed to send message", logging.Method(method))
	}
}

// SendRequest sends req and waits for the peer's response. If ctx ends
// first, a notifications/cancelled for the request is sent and ctx.Err() is
// returned. Error responses are returned as MCPError values.
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) SendRequest(ctx context.Context, req Req) (PeerResp, error) {
	var zero PeerResp
	method := req.Method()

	params, err := protocol.EncodeParams(req)
	if err != nil {
		return zero, mcperrors.InvalidParams(method, err)
	}

	pr := &pendingRequest{method: method, ch: make(chan *protocol.JSONRPCResponse, 1)}
	id := p.register(pr)
	defer p.unregister(id)

	msg, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return zero, mcperrors.InvalidParams(method, err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return zero, mcperrors.InternalError(method, err)
	}
	if err := p.transport.Send(ctx, data); err != nil {
		return zero, err
	}

	select {
	case resp := <-pr.ch:
		if resp.Error != nil {
			return zero, mcperrors.FromJSONRPCError(resp.Error)
		}
		result, err := p.role.DecodePeerResponse(req, resp.Result)
		if err != nil {
			return zero, mcperrors.WrapError(err, mcperrors.CodeProtocolError,
				fmt.Sprintf("malformed %s result", method))
		}
		return result, nil

	case <-p.ctx.Done():
		return zero, mcperrors.ConnectionClosed(p.ctx.Err())

	case <-ctx.Done():
		if p.ctx.Err() != nil {
			return zero, mcperrors.ConnectionClosed(p.ctx.Err())
		}
		p.sendCancellation(id, ctx.Err().Error())
		return zero, ctx.Err()
	}
}

// register stores pr under a fresh id. Ids still pending after the provider
// wraps around are skipped.
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) register(pr *pendingRequest) protocol.RequestID {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		id := p.ids.NextRequestID()
		if _, taken := p.pending[id]; !taken {
			p.pending[id] = pr
			return id
		}
	}
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) unregister(id protocol.RequestID) {
	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) sendCancellation(id protocol.RequestID, reason string) {
	n := p.role.Cancellation().FromCancelled(protocol.CancelledNotification{RequestID: id, Reason: reason})
	if err := p.SendNotification(context.Background(), n); err != nil {
		p.logger.WithError(err).Debug("failed to send cancellation", logging.RequestID(id))
	}
}

// SendNotification sends n to the peer
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) SendNotification(ctx context.Context, n Not) error {
	params, err := protocol.EncodeParams(n)
	if err != nil {
		return mcperrors.InvalidParams(n.Method(), err)
	}
	msg, err := protocol.NewNotification(n.Method(), params)
	if err != nil {
		return mcperrors.InvalidParams(n.Method(), err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return mcperrors.InternalError(n.Method(), err)
	}
	return p.transport.Send(ctx, data)
}

// NotifyProgress sends a progress notification for token
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) NotifyProgress(ctx context.Context, token protocol.ProgressToken, progress, total float64, message string) error {
	n, ok := any(protocol.ProgressNotification{
		ProgressToken: token,
		Progress:      progress,
		Total:         total,
		Message:       message,
	}).(Not)
	if !ok {
		return mcperrors.OperationNotSupported(protocol.MethodProgress)
	}
	return p.SendNotification(ctx, n)
}

// NextProgressToken mints a token to attach to an outgoing request
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) NextProgressToken() protocol.ProgressToken {
	return p.tokens.NextProgressToken()
}

// innerService is implemented by the wrappers a peer installs around the
// caller's service, such as the server handshake.
type innerService interface {
	inner() any
}

// Service returns the service the peer was started with. Wrappers added by
// ServeServer are not visible.
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) Service() service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo] {
	if w, ok := any(p.service).(innerService); ok {
		if svc, ok := w.inner().(service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]); ok {
			return svc
		}
	}
	return p.service
}

// PeerInfo returns what the other side announced during initialization
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) PeerInfo() (PeerInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peerInfo == nil {
		var zero PeerInfo
		return zero, false
	}
	return *p.peerInfo, true
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) setPeerInfo(info PeerInfo) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peerInfo != nil {
		return false
	}
	p.peerInfo = &info
	return true
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) markInitialized() {
	p.initOnce.Do(func() {
		p.initialized.Store(true)
		close(p.initializedCh)
	})
}

// Initialized reports whether the handshake has completed
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) Initialized() bool {
	return p.initialized.Load()
}

// SessionID is a random id used to correlate this session's log lines
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) SessionID() string {
	return p.sessionID
}

// Done is closed once the session has ended and every handler has returned
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) Done() <-chan struct{} {
	return p.done
}

// Err returns why the session ended. It is nil while the session runs and
// after a clean shutdown.
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Close ends the session, cancels in-flight handlers and waits for them
func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		_ = p.transport.Close()
	})
	<-p.done
	return p.err
}

func (p *Peer[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) finish(err error) {
	p.mu.Lock()
	pending := len(p.pending)
	p.mu.Unlock()

	if err != nil {
		p.logger.WithError(err).Warn("session ended", logging.Int("pending", pending))
	} else {
		p.logger.Debug("session ended", logging.Int("pending", pending))
	}
	p.err = err
	close(p.done)
}
