package transport

import (
	"context"

	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
)

// Middleware wraps a transport to add behavior around every message.
type Middleware interface {
	// Wrap wraps the given transport with middleware functionality
	Wrap(transport Transport) Transport
}

// MiddlewareFunc is an adapter to allow the use of ordinary functions as middleware
type MiddlewareFunc func(Transport) Transport

// Wrap implements the Middleware interface
func (f MiddlewareFunc) Wrap(t Transport) Transport {
	return f(t)
}

// ChainMiddleware chains multiple middleware together. The first middleware
// is the outermost.
func ChainMiddleware(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(transport Transport) Transport {
		for i := len(middleware) - 1; i >= 0; i-- {
			transport = middleware[i].Wrap(transport)
		}
		return transport
	})
}

// Hooks observes traffic without altering it. Nil hooks are skipped.
type Hooks struct {
	OnSend    func(msg []byte, err error)
	OnReceive func(msg []byte, err error)
	OnClose   func(err error)
}

// HooksMiddleware returns middleware that calls h after each operation.
func HooksMiddleware(h Hooks) Middleware {
	return MiddlewareFunc(func(next Transport) Transport {
		return &hookedTransport{next: next, hooks: h}
	})
}

type hookedTransport struct {
	next  Transport
	hooks Hooks
}

func (t *hookedTransport) Send(ctx context.Context, msg []byte) error {
	err := t.next.Send(ctx, msg)
	if t.hooks.OnSend != nil {
		t.hooks.OnSend(msg, err)
	}
	return err
}

func (t *hookedTransport) Receive(ctx context.Context) ([]byte, error) {
	msg, err := t.next.Receive(ctx)
	if t.hooks.OnReceive != nil {
		t.hooks.OnReceive(msg, err)
	}
	return msg, err
}

func (t *hookedTransport) Close() error {
	err := t.next.Close()
	if t.hooks.OnClose != nil {
		t.hooks.OnClose(err)
	}
	return err
}

// LoggingMiddleware logs every frame at debug level.
func LoggingMiddleware(logger logging.Logger) Middleware {
	return HooksMiddleware(Hooks{
		OnSend: func(msg []byte, err error) {
			if err != nil {
				logger.WithError(err).Warn("send failed", logging.Int("bytes", len(msg)))
				return
			}
			logger.Debug("sent", logging.Int("bytes", len(msg)), logging.String("frame", string(msg)))
		},
		OnReceive: func(msg []byte, err error) {
			if err != nil {
				logger.Debug("receive ended", logging.ErrorField(err))
				return
			}
			logger.Debug("received", logging.Int("bytes", len(msg)), logging.String("frame", string(msg)))
		},
		OnClose: func(err error) {
			if err != nil {
				logger.WithError(err).Warn("close failed")
			}
		},
	})
}
