package observability

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// instrumented decorates a Service with spans and metrics. Values and
// errors pass through untouched.
type instrumented[
	R service.Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
] struct {
	inner   service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]
	tracer  trace.Tracer
	tracing *TracingProvider
	metrics *Metrics
	role    R
}

// Instrument wraps svc so every request and notification it handles is
// traced by tp and counted by m. Either may be nil.
func Instrument[
	R service.Role[Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	Req protocol.Request,
	Resp any,
	Not protocol.Message,
	PeerReq protocol.Request,
	PeerResp any,
	PeerNot protocol.Message,
	Info any,
	PeerInfo any,
](
	svc service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo],
	tp *TracingProvider,
	m *Metrics,
) service.Service[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo] {
	in := &instrumented[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]{
		inner:   svc,
		tracing: tp,
		metrics: m,
	}
	if tp != nil {
		in.tracer = tp.Tracer()
	} else {
		in.tracer = noop.NewTracerProvider().Tracer("")
	}
	return in
}

// InstrumentClient wraps a client service
func InstrumentClient(svc service.ClientService, tp *TracingProvider, m *Metrics) service.ClientService {
	return Instrument(svc, tp, m)
}

// InstrumentServer wraps a server service
func InstrumentServer(svc service.ServerService, tp *TracingProvider, m *Metrics) service.ServerService {
	return Instrument(svc, tp, m)
}

func (s *instrumented[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) startSpan(ctx context.Context, method string, kind trace.SpanKind, rc *service.RequestContext[R]) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{AttrRole.String(s.role.String())}
	if rc != nil {
		attrs = append(attrs, AttrRequestID.String(rc.ID.String()))
	}
	if s.tracing != nil {
		return s.tracing.StartMethodSpan(ctx, method, kind, attrs...)
	}
	attrs = append(attrs, AttrMethod.String(method))
	return s.tracer.Start(ctx, "mcp."+method, trace.WithSpanKind(kind), trace.WithAttributes(attrs...))
}

func (s *instrumented[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) HandleRequest(ctx context.Context, req PeerReq, rc service.RequestContext[R]) (Resp, error) {
	method := req.Method()
	role := s.role.String()

	ctx, span := s.startSpan(ctx, method, trace.SpanKindServer, &rc)
	defer span.End()

	if s.metrics != nil {
		done := s.metrics.RequestStarted(role)
		defer done()
	}

	start := time.Now()
	resp, err := s.inner.HandleRequest(ctx, req, rc)
	if s.metrics != nil {
		s.metrics.RecordRequest(role, method, err, time.Since(start))
	}
	RecordError(ctx, err)
	return resp, err
}

func (s *instrumented[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) HandleNotification(ctx context.Context, n PeerNot) error {
	method := n.Method()
	role := s.role.String()

	ctx, span := s.startSpan(ctx, method, trace.SpanKindConsumer, nil)
	defer span.End()

	if _, err := s.role.PeerCancellation().TryIntoCancelled(n); err == nil && s.metrics != nil {
		s.metrics.RecordCancellation(role)
	}

	err := s.inner.HandleNotification(ctx, n)
	if s.metrics != nil {
		s.metrics.RecordNotification(role, method, err)
	}
	RecordError(ctx, err)
	return err
}

func (s *instrumented[R, Req, Resp, Not, PeerReq, PeerResp, PeerNot, Info, PeerInfo]) GetInfo() Info {
	return s.inner.GetInfo()
}

// TransportMiddleware counts the frames and bytes moving through a transport.
// End of stream is not counted.
func (m *Metrics) TransportMiddleware() transport.Middleware {
	return transport.HooksMiddleware(transport.Hooks{
		OnSend: func(msg []byte, err error) {
			m.RecordTransport("send", len(msg), err)
		},
		OnReceive: func(msg []byte, err error) {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return
			}
			m.RecordTransport("receive", len(msg), err)
		},
	})
}
