package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
	"github.com/ajitpratap0/mcp-service-go/pkg/pagination"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/session"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// DefaultLogLevel is the minimum level forwarded to a session that has not
// sent logging/setLevel.
const DefaultLogLevel = protocol.LogLevelInfo

// Server is a server-role service that offers tools, resources and prompts.
// One Server may serve any number of sessions.
type Server struct {
	name         string
	version      string
	instructions string
	pageSize     int
	logger       logging.Logger

	capabilities map[protocol.CapabilityType]bool

	mu        sync.RWMutex
	tools     map[string]Tool
	resources map[string]Resource
	prompts   map[string]Prompt
	sessions  map[*session.ServerPeer]*sessionState

	subscriptions *subscriptionManager

	rootsChanged func(ctx context.Context, p *session.ServerPeer)
}

type sessionState struct {
	logLevel protocol.LogLevel
}

var _ service.ServerService = (*Server)(nil)

// ServerOption defines options for creating a server
type ServerOption func(*Server)

// WithName sets the server name
func WithName(name string) ServerOption {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithInstructions sets the usage hint returned from initialize
func WithInstructions(instructions string) ServerOption {
	return func(s *Server) {
		s.instructions = instructions
	}
}

// WithCapability advertises a capability even if nothing is registered for it
func WithCapability(capability protocol.CapabilityType, enabled bool) ServerOption {
	return func(s *Server) {
		s.capabilities[capability] = enabled
	}
}

// WithPageSize sets how many items a list request returns per page
func WithPageSize(n int) ServerOption {
	return func(s *Server) {
		s.pageSize = pagination.ClampLimit(n)
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTools registers tools and advertises the tools capability
func WithTools(tools ...Tool) ServerOption {
	return func(s *Server) {
		s.capabilities[protocol.CapabilityTools] = true
		for _, t := range tools {
			s.tools[t.Definition.Name] = t
		}
	}
}

// WithResources registers resources and advertises the resources capability
func WithResources(resources ...Resource) ServerOption {
	return func(s *Server) {
		s.capabilities[protocol.CapabilityResources] = true
		for _, r := range resources {
			s.resources[r.Definition.URI] = r
		}
	}
}

// WithPrompts registers prompts and advertises the prompts capability
func WithPrompts(prompts ...Prompt) ServerOption {
	return func(s *Server) {
		s.capabilities[protocol.CapabilityPrompts] = true
		for _, p := range prompts {
			s.prompts[p.Definition.Name] = p
		}
	}
}

// WithRootsChangedHandler is called when a client reports that its roots
// changed. The handler may list them again through the session.
func WithRootsChangedHandler(fn func(ctx context.Context, p *session.ServerPeer)) ServerOption {
	return func(s *Server) {
		s.rootsChanged = fn
	}
}

// New creates a new MCP server
func New(options ...ServerOption) *Server {
	s := &Server{
		name:          "go-mcp-server",
		version:       "1.0.0",
		pageSize:      pagination.DefaultLimit,
		logger:        logging.Nop(),
		capabilities:  make(map[protocol.CapabilityType]bool),
		tools:         make(map[string]Tool),
		resources:     make(map[string]Resource),
		prompts:       make(map[string]Prompt),
		sessions:      make(map[*session.ServerPeer]*sessionState),
		subscriptions: newSubscriptionManager(),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.WithFields(logging.String("component", "server"), logging.String("server", s.name))
	return s
}

// Serve runs the server side of a session over t. It returns once the client
// has completed initialization.
func (s *Server) Serve(ctx context.Context, t transport.Transport, opts ...session.Option) (*session.ServerPeer, error) {
	return session.ServeServer(ctx, t, s, opts...)
}

// GetInfo describes the server. It changes only when capabilities do.
func (s *Server) GetInfo() protocol.ServerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var caps protocol.ServerCapabilities
	if s.capabilities[protocol.CapabilityTools] {
		caps.Tools = &protocol.ListChangedCapability{ListChanged: true}
	}
	if s.capabilities[protocol.CapabilityResources] {
		caps.Resources = &protocol.ResourcesCapability{Subscribe: true, ListChanged: true}
	}
	if s.capabilities[protocol.CapabilityPrompts] {
		caps.Prompts = &protocol.ListChangedCapability{ListChanged: true}
	}
	if s.capabilities[protocol.CapabilityLogging] {
		caps.Logging = &struct{}{}
	}

	return protocol.ServerInfo{
		ProtocolVersion: protocol.ProtocolRevision,
		Capabilities:    caps,
		ServerInfo:      protocol.Implementation{Name: s.name, Version: s.version},
		Instructions:    s.instructions,
	}
}

// HandleRequest serves one client request
func (s *Server) HandleRequest(ctx context.Context, req protocol.ClientRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
	if p, ok := session.ServerPeerFromContext(ctx); ok {
		s.track(p)
	}

	switch r := req.(type) {
	case protocol.PingRequest:
		return protocol.EmptyResult{}, nil
	case protocol.InitializeRequest:
		return s.GetInfo(), nil
	case protocol.ListToolsRequest:
		return s.listTools(r)
	case protocol.CallToolRequest:
		return s.callTool(ctx, r, rc)
	case protocol.ListResourcesRequest:
		return s.listResources(r)
	case protocol.ReadResourceRequest:
		return s.readResource(ctx, r)
	case protocol.SubscribeRequest:
		return s.subscribe(ctx, r)
	case protocol.UnsubscribeRequest:
		return s.unsubscribe(ctx, r)
	case protocol.ListPromptsRequest:
		return s.listPrompts(r)
	case protocol.GetPromptRequest:
		return s.getPrompt(ctx, r)
	case protocol.SetLevelRequest:
		return s.setLevel(ctx, r)
	default:
		return nil, mcperrors.MethodNotFound(req.Method())
	}
}

// HandleNotification handles client notifications
func (s *Server) HandleNotification(ctx context.Context, n protocol.ClientNotification) error {
	p, hasPeer := session.ServerPeerFromContext(ctx)
	if hasPeer {
		s.track(p)
	}

	switch v := n.(type) {
	case protocol.InitializedNotification:
		s.logger.Debug("client initialized")
	case protocol.CancelledNotification:
		s.logger.Debug("client cancelled request",
			logging.RequestID(v.RequestID),
			logging.String("reason", v.Reason),
		)
	case protocol.RootsListChangedNotification:
		if s.rootsChanged != nil && hasPeer {
			s.rootsChanged(ctx, p)
		}
	}
	return nil
}

func (s *Server) require(capability protocol.CapabilityType) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.capabilities[capability] {
		return mcperrors.CapabilityRequired(string(capability))
	}
	return nil
}

// Tools

func (s *Server) listTools(req protocol.ListToolsRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityTools); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defs := make([]protocol.Tool, 0, len(s.tools))
	for _, t := range s.tools {
		defs = append(defs, t.Definition)
	}
	s.mu.RUnlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	page, next, err := pagination.Page(defs, req.Cursor, s.pageSize)
	if err != nil {
		return nil, mcperrors.InvalidParams(req.Method(), err)
	}
	return protocol.ListToolsResult{Tools: page, NextCursor: next}, nil
}

func (s *Server) callTool(ctx context.Context, req protocol.CallToolRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityTools); err != nil {
		return nil, err
	}

	s.mu.RLock()
	tool, ok := s.tools[req.Name]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.ResourceNotFound("tool", req.Name)
	}

	start := time.Now()
	result, err := tool.Handler(ctx, req.Arguments)
	logger := s.logger.WithFields(
		logging.String("tool", req.Name),
		logging.RequestID(rc.ID),
		logging.Duration("duration", time.Since(start)),
	)
	if err == nil {
		logger.Debug("tool call finished")
		return result, nil
	}
	if _, isMCP := mcperrors.AsMCPError(err); isMCP || ctx.Err() != nil ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.WithError(err).Debug("tool call failed")
		return nil, err
	}
	logger.WithError(err).Info("tool reported an error")
	return ErrorResult(err.Error()), nil
}

// AddTool registers or replaces a tool and tells connected sessions the list
// changed.
func (s *Server) AddTool(t Tool) {
	s.mu.Lock()
	s.tools[t.Definition.Name] = t
	s.capabilities[protocol.CapabilityTools] = true
	s.mu.Unlock()
	s.broadcast(protocol.ToolListChangedNotification{})
}

// RemoveTool unregisters a tool
func (s *Server) RemoveTool(name string) bool {
	s.mu.Lock()
	_, ok := s.tools[name]
	delete(s.tools, name)
	s.mu.Unlock()
	if ok {
		s.broadcast(protocol.ToolListChangedNotification{})
	}
	return ok
}

// Resources

func (s *Server) listResources(req protocol.ListResourcesRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defs := make([]protocol.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		defs = append(defs, r.Definition)
	}
	s.mu.RUnlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].URI < defs[j].URI })

	page, next, err := pagination.Page(defs, req.Cursor, s.pageSize)
	if err != nil {
		return nil, mcperrors.InvalidParams(req.Method(), err)
	}
	return protocol.ListResourcesResult{Resources: page, NextCursor: next}, nil
}

func (s *Server) readResource(ctx context.Context, req protocol.ReadResourceRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return nil, err
	}

	s.mu.RLock()
	res, ok := s.resources[req.URI]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.ResourceNotFoundByURI(req.URI)
	}

	contents, err := res.Handler(ctx, req.URI)
	if err != nil {
		return nil, err
	}
	return protocol.ReadResourceResult{Contents: contents}, nil
}

func (s *Server) subscribe(ctx context.Context, req protocol.SubscribeRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return nil, err
	}
	p, ok := session.ServerPeerFromContext(ctx)
	if !ok {
		return nil, mcperrors.InvalidRequest("subscriptions require a session")
	}

	s.mu.RLock()
	_, known := s.resources[req.URI]
	s.mu.RUnlock()
	if !known {
		return nil, mcperrors.ResourceNotFoundByURI(req.URI)
	}

	s.subscriptions.subscribe(req.URI, p)
	s.logger.Debug("resource subscribed", logging.String("uri", req.URI), logging.String(logging.KeySessionID, p.SessionID()))
	return protocol.EmptyResult{}, nil
}

func (s *Server) unsubscribe(ctx context.Context, req protocol.UnsubscribeRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityResources); err != nil {
		return nil, err
	}
	p, ok := session.ServerPeerFromContext(ctx)
	if !ok {
		return nil, mcperrors.InvalidRequest("subscriptions require a session")
	}
	s.subscriptions.unsubscribe(req.URI, p)
	return protocol.EmptyResult{}, nil
}

// AddResource registers or replaces a resource and tells connected sessions
// the list changed.
func (s *Server) AddResource(r Resource) {
	s.mu.Lock()
	s.resources[r.Definition.URI] = r
	s.capabilities[protocol.CapabilityResources] = true
	s.mu.Unlock()
	s.broadcast(protocol.ResourceListChangedNotification{})
}

// RemoveResource unregisters a resource
func (s *Server) RemoveResource(uri string) bool {
	s.mu.Lock()
	_, ok := s.resources[uri]
	delete(s.resources, uri)
	s.mu.Unlock()
	if ok {
		s.broadcast(protocol.ResourceListChangedNotification{})
	}
	return ok
}

// NotifyResourceUpdated sends resources/updated to every session subscribed
// to uri.
func (s *Server) NotifyResourceUpdated(ctx context.Context, uri string) error {
	var errs []error
	for _, p := range s.subscriptions.subscribers(uri) {
		if err := p.SendNotification(ctx, protocol.ResourceUpdatedNotification{URI: uri}); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", p.SessionID(), err))
		}
	}
	return errors.Join(errs...)
}

// Subscriptions lists the resources p is subscribed to
func (s *Server) Subscriptions(p *session.ServerPeer) []Subscription {
	return s.subscriptions.of(p)
}

// Prompts

func (s *Server) listPrompts(req protocol.ListPromptsRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityPrompts); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defs := make([]protocol.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		defs = append(defs, p.Definition)
	}
	s.mu.RUnlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	page, next, err := pagination.Page(defs, req.Cursor, s.pageSize)
	if err != nil {
		return nil, mcperrors.InvalidParams(req.Method(), err)
	}
	return protocol.ListPromptsResult{Prompts: page, NextCursor: next}, nil
}

func (s *Server) getPrompt(ctx context.Context, req protocol.GetPromptRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityPrompts); err != nil {
		return nil, err
	}

	s.mu.RLock()
	prompt, ok := s.prompts[req.Name]
	s.mu.RUnlock()
	if !ok {
		return nil, mcperrors.ResourceNotFound("prompt", req.Name)
	}
	if name, missing := prompt.missingArgument(req.Arguments); missing {
		return nil, mcperrors.InvalidParams(req.Method(), fmt.Errorf("missing required argument %q", name))
	}

	result, err := prompt.Handler(ctx, req.Arguments)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddPrompt registers or replaces a prompt and tells connected sessions the
// list changed.
func (s *Server) AddPrompt(p Prompt) {
	s.mu.Lock()
	s.prompts[p.Definition.Name] = p
	s.capabilities[protocol.CapabilityPrompts] = true
	s.mu.Unlock()
	s.broadcast(protocol.PromptListChangedNotification{})
}

// Logging

func (s *Server) setLevel(ctx context.Context, req protocol.SetLevelRequest) (protocol.ServerResult, error) {
	if err := s.require(protocol.CapabilityLogging); err != nil {
		return nil, err
	}
	if !req.Level.Valid() {
		return nil, mcperrors.InvalidParams(req.Method(), fmt.Errorf("unknown log level %q", req.Level))
	}
	p, ok := session.ServerPeerFromContext(ctx)
	if !ok {
		return nil, mcperrors.InvalidRequest("logging/setLevel requires a session")
	}

	s.mu.Lock()
	if st, tracked := s.sessions[p]; tracked {
		st.logLevel = req.Level
	}
	s.mu.Unlock()
	return protocol.EmptyResult{}, nil
}

// Log sends a notifications/message to every session whose level admits
// level. data must marshal to JSON.
func (s *Server) Log(ctx context.Context, level protocol.LogLevel, loggerName string, data interface{}) error {
	if !level.Valid() {
		return mcperrors.InvalidParams(protocol.MethodLoggingMessage, fmt.Errorf("unknown log level %q", level))
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return mcperrors.InternalError(protocol.MethodLoggingMessage, err)
	}

	s.mu.RLock()
	if !s.capabilities[protocol.CapabilityLogging] {
		s.mu.RUnlock()
		return mcperrors.CapabilityRequired(string(protocol.CapabilityLogging))
	}
	var targets []*session.ServerPeer
	for p, st := range s.sessions {
		if level.AtLeast(st.logLevel) {
			targets = append(targets, p)
		}
	}
	s.mu.RUnlock()

	n := protocol.LoggingMessageNotification{Level: level, Logger: loggerName, Data: raw}
	var errs []error
	for _, p := range targets {
		if err := p.SendNotification(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", p.SessionID(), err))
		}
	}
	return errors.Join(errs...)
}

// Sessions

// track remembers p until its session ends
func (s *Server) track(p *session.ServerPeer) {
	s.mu.Lock()
	if _, ok := s.sessions[p]; ok {
		s.mu.Unlock()
		return
	}
	s.sessions[p] = &sessionState{logLevel: DefaultLogLevel}
	s.mu.Unlock()

	go func() {
		<-p.Done()
		s.forget(p)
	}()
}

func (s *Server) forget(p *session.ServerPeer) {
	s.mu.Lock()
	delete(s.sessions, p)
	s.mu.Unlock()
	s.subscriptions.drop(p)
	s.logger.Debug("session ended", logging.String(logging.KeySessionID, p.SessionID()))
}

// SessionCount returns the number of sessions the server has seen a request
// from and that are still open.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) broadcast(n protocol.ServerNotification) {
	s.mu.RLock()
	targets := make([]*session.ServerPeer, 0, len(s.sessions))
	for p := range s.sessions {
		targets = append(targets, p)
	}
	s.mu.RUnlock()

	for _, p := range targets {
		if err := p.SendNotification(context.Background(), n); err != nil {
			s.logger.WithError(err).Warn("failed to send list change",
				logging.Method(n.Method()),
				logging.String(logging.KeySessionID, p.SessionID()),
			)
		}
	}
}
