package client

import (
	"context"
	"sync"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
	"github.com/ajitpratap0/mcp-service-go/pkg/observability"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/session"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// SamplingHandler answers a server's sampling/createMessage request
type SamplingHandler func(ctx context.Context, req protocol.CreateMessageRequest) (protocol.CreateMessageResult, error)

// NotificationHandler receives every notification the server sends
type NotificationHandler func(ctx context.Context, n protocol.ServerNotification)

// Client is a client-role service. It answers the requests a server may send
// (ping, sampling, roots) and can open any number of sessions.
type Client struct {
	name    string
	version string
	logger  logging.Logger

	sampling       SamplingHandler
	onNotification NotificationHandler

	tracing *observability.TracingProvider
	metrics *observability.Metrics

	mu       sync.RWMutex
	roots    []protocol.Root
	sessions map[*session.ClientPeer]struct{}

	progress *progressRouter
}

var _ service.ClientService = (*Client)(nil)

// ClientOption defines options for creating a client
type ClientOption func(*Client)

// WithName sets the client name
func WithName(name string) ClientOption {
	return func(c *Client) {
		c.name = name
	}
}

// WithVersion sets the client version
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithLogger sets the logger. Log messages pushed by the server are written
// to it as well.
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSamplingHandler enables the sampling capability
func WithSamplingHandler(h SamplingHandler) ClientOption {
	return func(c *Client) {
		c.sampling = h
	}
}

// WithNotificationHandler sets a callback for server notifications
func WithNotificationHandler(h NotificationHandler) ClientOption {
	return func(c *Client) {
		c.onNotification = h
	}
}

// WithRoots sets the roots returned from roots/list
func WithRoots(roots ...protocol.Root) ClientOption {
	return func(c *Client) {
		c.roots = append([]protocol.Root(nil), roots...)
	}
}

// WithObservability records spans and metrics for everything the client
// handles. Either argument may be nil.
func WithObservability(tp *observability.TracingProvider, m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.tracing = tp
		c.metrics = m
	}
}

// New creates a new MCP client
func New(options ...ClientOption) *Client {
	c := &Client{
		name:     "go-mcp-client",
		version:  "1.0.0",
		logger:   logging.Nop(),
		sessions: make(map[*session.ClientPeer]struct{}),
		progress: newProgressRouter(),
	}
	for _, option := range options {
		option(c)
	}
	c.logger = c.logger.WithFields(logging.String("component", "client"), logging.String("client", c.name))
	return c
}

// Connect opens a session over t and completes the initialize handshake.
// The session lives until ctx ends, Close is called or the server goes away.
func (c *Client) Connect(ctx context.Context, t transport.Transport, opts ...session.Option) (*Session, error) {
	var svc service.ClientService = c
	if c.tracing != nil || c.metrics != nil {
		svc = observability.InstrumentClient(c, c.tracing, c.metrics)
	}
	if c.metrics != nil {
		t = c.metrics.TransportMiddleware().Wrap(t)
	}
	opts = append([]session.Option{session.WithLogger(c.logger)}, opts...)

	peer, err := session.ServeClient(ctx, t, svc, opts...)
	if err != nil {
		return nil, err
	}
	info, _ := peer.PeerInfo()

	c.mu.Lock()
	c.sessions[peer] = struct{}{}
	c.mu.Unlock()
	go func() {
		<-peer.Done()
		c.mu.Lock()
		delete(c.sessions, peer)
		c.mu.Unlock()
	}()

	return &Session{client: c, peer: peer, info: info}, nil
}

// GetInfo describes the client
func (c *Client) GetInfo() protocol.ClientInfo {
	caps := protocol.ClientCapabilities{
		Roots: &protocol.RootsCapability{ListChanged: true},
	}
	if c.sampling != nil {
		caps.Sampling = &struct{}{}
	}
	return protocol.ClientInfo{
		ProtocolVersion: protocol.ProtocolRevision,
		Capabilities:    caps,
		ClientInfo:      protocol.Implementation{Name: c.name, Version: c.version},
	}
}

// HandleRequest serves one server request
func (c *Client) HandleRequest(ctx context.Context, req protocol.ServerRequest, rc service.RequestContext[service.RoleClient]) (protocol.ClientResult, error) {
	switch r := req.(type) {
	case protocol.PingRequest:
		return protocol.EmptyResult{}, nil
	case protocol.CreateMessageRequest:
		if c.sampling == nil {
			return nil, mcperrors.CapabilityRequired(string(protocol.CapabilitySampling))
		}
		result, err := c.sampling(ctx, r)
		if err != nil {
			return nil, err
		}
		return result, nil
	case protocol.ListRootsRequest:
		return protocol.ListRootsResult{Roots: c.Roots()}, nil
	default:
		return nil, mcperrors.MethodNotFound(req.Method())
	}
}

// HandleNotification handles server notifications
func (c *Client) HandleNotification(ctx context.Context, n protocol.ServerNotification) error {
	switch v := n.(type) {
	case protocol.ProgressNotification:
		peer, _ := session.ClientPeerFromContext(ctx)
		c.progress.dispatch(peer, v)
	case protocol.LoggingMessageNotification:
		c.logServerMessage(v)
	case protocol.CancelledNotification:
		c.logger.Debug("server cancelled request",
			logging.RequestID(v.RequestID),
			logging.String("reason", v.Reason),
		)
	}
	if c.onNotification != nil {
		c.onNotification(ctx, n)
	}
	return nil
}

func (c *Client) logServerMessage(n protocol.LoggingMessageNotification) {
	fields := []logging.Field{
		logging.String("level", string(n.Level)),
		logging.String("data", string(n.Data)),
	}
	if n.Logger != "" {
		fields = append(fields, logging.String("logger", n.Logger))
	}
	const msg = "server log message"
	switch n.Level {
	case protocol.LogLevelDebug:
		c.logger.Debug(msg, fields...)
	case protocol.LogLevelInfo, protocol.LogLevelNotice:
		c.logger.Info(msg, fields...)
	case protocol.LogLevelWarning:
		c.logger.Warn(msg, fields...)
	default:
		c.logger.Error(msg, fields...)
	}
}

// Roots returns a copy of the client's roots
func (c *Client) Roots() []protocol.Root {
	c.mu.RLock()
	defer c.mu.RUnlock()
	roots := make([]protocol.Root, len(c.roots))
	copy(roots, c.roots)
	return roots
}

// SetRoots replaces the roots and tells every open session they changed
func (c *Client) SetRoots(ctx context.Context, roots ...protocol.Root) error {
	c.mu.Lock()
	c.roots = append([]protocol.Root(nil), roots...)
	peers := make([]*session.ClientPeer, 0, len(c.sessions))
	for p := range c.sessions {
		peers = append(peers, p)
	}
	c.mu.Unlock()

	var firstErr error
	for _, p := range peers {
		if err := p.SendNotification(ctx, protocol.RootsListChangedNotification{}); err != nil {
			c.logger.WithError(err).Warn("failed to send roots change", logging.String(logging.KeySessionID, p.SessionID()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
