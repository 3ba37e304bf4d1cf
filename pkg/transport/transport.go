package transport

import (
	"context"

	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
)

// DefaultMaxMessageSize bounds a single framed message.
const DefaultMaxMessageSize = 4 * 1024 * 1024

// Transport moves complete JSON-RPC messages between two peers. It knows
// nothing about their content; decoding and correlation belong to the
// session layer.
type Transport interface {
	// Send writes one message. It is safe for concurrent use.
	Send(ctx context.Context, msg []byte) error

	// Receive blocks until the next message arrives. It returns io.EOF once
	// the stream has ended or the transport has been closed.
	Receive(ctx context.Context) ([]byte, error)

	// Close releases the underlying stream. Pending and later Receive calls
	// return io.EOF.
	Close() error
}

// Options configures the built-in transports.
type Options struct {
	// MaxMessageSize bounds both sent and received messages.
	MaxMessageSize int
	Logger         logging.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithMaxMessageSize sets the largest message accepted in either direction.
func WithMaxMessageSize(n int) Option {
	return func(o *Options) {
		o.MaxMessageSize = n
	}
}

// WithLogger sets the logger used for low-level I/O diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func buildOptions(opts []Option) Options {
	o := Options{
		MaxMessageSize: DefaultMaxMessageSize,
		Logger:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = DefaultMaxMessageSize
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}
