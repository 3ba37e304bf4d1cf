// Package pkg holds the building blocks of the Model Context Protocol module.
//
// The layers, bottom up:
//
//   - protocol: payload types, the JSON-RPC envelope and per-method codecs
//   - errors: MCPError with JSON-RPC codes, categories and severities
//   - logging: the structured logger used by every other package
//   - transport: message framing over stdio, arbitrary streams or a pipe
//   - service: Role, Service and the type-erased DynService
//   - session: Peer, which runs a Service over a Transport with request
//     correlation and cancellation
//   - client, server: services for each side of a session
//   - observability, config, pagination, utils: supporting pieces
//
// Most programs only need client or server:
//
//	srv := server.New(server.WithTools(tool))
//	peer, err := srv.Serve(ctx, transport.NewStdioTransport())
//
//	c := client.New()
//	s, err := c.Connect(ctx, transport.NewStdioTransport())
package pkg
