package session

import (
	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
)

type options struct {
	logger logging.Logger
	ids    service.RequestIDProvider
	tokens service.ProgressTokenProvider
}

// Option configures a Peer
type Option func(*options)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIDProvider sets where outgoing request ids come from. The default is a
// fresh service.AtomicProvider shared with progress tokens.
func WithIDProvider(p service.RequestIDProvider) Option {
	return func(o *options) {
		o.ids = p
	}
}

// WithProgressTokenProvider sets where progress tokens come from
func WithProgressTokenProvider(p service.ProgressTokenProvider) Option {
	return func(o *options) {
		o.tokens = p
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	if o.ids == nil || o.tokens == nil {
		shared := service.NewAtomicProvider()
		if o.ids == nil {
			o.ids = shared
		}
		if o.tokens == nil {
			o.tokens = shared
		}
	}
	return o
}
