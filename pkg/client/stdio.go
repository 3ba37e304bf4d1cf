package client

import (
	"context"
	"io"

	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// ConnectStdio opens a session over the process's stdin and stdout, the
// transport a server launched as a subprocess expects.
func (c *Client) ConnectStdio(ctx context.Context, opts ...transport.Option) (*Session, error) {
	return c.Connect(ctx, transport.NewStdioTransport(opts...))
}

// ConnectStreams opens a session over r and w, e.g. the pipes of a server
// subprocess started with os/exec.
func (c *Client) ConnectStreams(ctx context.Context, r io.Reader, w io.Writer, opts ...transport.Option) (*Session, error) {
	return c.Connect(ctx, transport.NewStreamTransport(r, w, opts...))
}
