// Package mcp is the root of a Go implementation of the Model Context
// Protocol (2025-03-26), providing convenient exports of the core components
// from the sub-packages.
//
// # Overview
//
//   - pkg/protocol: JSON-RPC envelope and the request, result and notification vocabularies
//   - pkg/service: the role-generic Service contract both sides implement
//   - pkg/session: the peer runtime that drives a Service over a Transport
//   - pkg/transport: newline-delimited JSON over stdio, streams or an in-memory pipe
//   - pkg/client and pkg/server: ready-made client and server services
//   - pkg/observability: Prometheus metrics and OpenTelemetry spans for sessions
//   - pkg/config: environment configuration
//
// # Creating a Server
//
//	type greetArgs struct {
//	    Name string `json:"name"`
//	}
//
//	greet := server.MustTool("greet", "Says hello",
//	    func(ctx context.Context, args greetArgs) (protocol.CallToolResult, error) {
//	        return mcp.TextResult("Hello, " + args.Name + "!"), nil
//	    })
//
//	srv := mcp.NewServer(mcp.WithServerName("MyServer"), mcp.WithTools(greet))
//	peer, err := srv.Serve(ctx, mcp.NewStdioTransport())
//	if err != nil {
//	    // Handle error
//	}
//	<-peer.Done()
//
// # Creating a Client
//
//	c := mcp.NewClient(mcp.WithClientName("MyClient"))
//	s, err := c.ConnectStdio(ctx)
//	if err != nil {
//	    // Handle error
//	}
//	defer s.Close()
//
//	result, err := s.CallTool(ctx, "greet", map[string]string{"name": "Gopher"})
//
// # Examples
//
//   - examples/ping: a client and a server in one process, configured from the
//     environment and instrumented with metrics and tracing
package mcp
