// Package transport moves framed JSON-RPC messages between two MCP peers.
//
// A Transport only sends and receives whole messages; it does not decode
// them. The session package layers request correlation and dispatch on top.
//
// # Stdio
//
// StdioTransport frames each message as one line of JSON. NewStdioTransport
// binds it to the process's stdin and stdout, which is how MCP servers are
// launched by clients:
//
//	t := transport.NewStdioTransport(transport.WithMaxMessageSize(1 << 20))
//	defer t.Close()
//
// NewStreamTransport does the same over any reader and writer, for instance
// the pipes of a child process.
//
// # In-process peers
//
// NewPipe returns two connected transports, useful for tests and for running
// a client and server in one process:
//
//	clientSide, serverSide := transport.NewPipe()
//
// # Middleware
//
// Middleware wraps a Transport. ChainMiddleware composes several, with the
// first one outermost. HooksMiddleware observes each operation and is the
// building block for LoggingMiddleware and for the metrics middleware in the
// observability package.
package transport
