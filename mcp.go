package mcp

import (
	"github.com/ajitpratap0/mcp-service-go/pkg/client"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/server"
	"github.com/ajitpratap0/mcp-service-go/pkg/session"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// Version represents the current version of the module
const Version = "0.1.0"

// ProtocolRevision is the MCP revision spoken by clients and servers
const ProtocolRevision = protocol.ProtocolRevision

// These exports provide direct access to the core components
var (
	// NewClient creates a new MCP client
	NewClient = client.New

	// NewServer creates a new MCP server
	NewServer = server.New

	// NewStdioTransport creates a transport over stdin and stdout
	NewStdioTransport = transport.NewStdioTransport

	// NewStreamTransport creates a transport over any reader and writer
	NewStreamTransport = transport.NewStreamTransport

	// NewPipe creates two connected in-memory transports
	NewPipe = transport.NewPipe

	// ServeClient and ServeServer run a raw service as one side of a session
	ServeClient = session.ServeClient
	ServeServer = session.ServeServer
)

// Protocol constants for capabilities
const (
	CapabilityTools     = protocol.CapabilityTools
	CapabilityResources = protocol.CapabilityResources
	CapabilityPrompts   = protocol.CapabilityPrompts
	CapabilityRoots     = protocol.CapabilityRoots
	CapabilitySampling  = protocol.CapabilitySampling
	CapabilityLogging   = protocol.CapabilityLogging
)

// Client options
var (
	WithClientName          = client.WithName
	WithClientVersion       = client.WithVersion
	WithClientLogger        = client.WithLogger
	WithSamplingHandler     = client.WithSamplingHandler
	WithNotificationHandler = client.WithNotificationHandler
	WithRoots               = client.WithRoots
	WithClientObservability = client.WithObservability
)

// Server options
var (
	WithServerName          = server.WithName
	WithServerVersion       = server.WithVersion
	WithInstructions        = server.WithInstructions
	WithServerCapability    = server.WithCapability
	WithServerLogger        = server.WithLogger
	WithPageSize            = server.WithPageSize
	WithTools               = server.WithTools
	WithResources           = server.WithResources
	WithPrompts             = server.WithPrompts
	WithRootsChangedHandler = server.WithRootsChangedHandler
)

// Tool and resource helpers
var (
	TextResult   = server.TextResult
	ErrorResult  = server.ErrorResult
	TextResource = server.TextResource
)
