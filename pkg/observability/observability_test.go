package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
	"github.com/ajitpratap0/mcp-service-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-service-go/pkg/service"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

type stubServer struct {
	notified []protocol.ClientNotification
}

func (s *stubServer) HandleRequest(ctx context.Context, req protocol.ClientRequest, rc service.RequestContext[service.RoleServer]) (protocol.ServerResult, error) {
	switch r := req.(type) {
	case protocol.PingRequest:
		return protocol.EmptyResult{}, nil
	case protocol.CallToolRequest:
		if r.Name == "slow" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return nil, mcperrors.ResourceNotFound("tool", r.Name)
	default:
		return nil, mcperrors.MethodNotFound(req.Method())
	}
}

func (s *stubServer) HandleNotification(ctx context.Context, n protocol.ClientNotification) error {
	s.notified = append(s.notified, n)
	if _, ok := n.(protocol.RootsListChangedNotification); ok {
		return errors.New("not tracked")
	}
	return nil
}

func (s *stubServer) GetInfo() protocol.ServerInfo {
	return protocol.ServerInfo{
		ProtocolVersion: protocol.ProtocolRevision,
		ServerInfo:      protocol.Implementation{Name: "stub", Version: "0.0.1"},
	}
}

func newTestTracing(t *testing.T) (*TracingProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewTracingProvider(TracingConfig{ServiceName: "test", Exporter: exporter})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exporter
}

func TestInstrumentPassesValuesThrough(t *testing.T) {
	inner := &stubServer{}
	svc := InstrumentServer(inner, nil, nil)
	rc := service.RequestContext[service.RoleServer]{ID: protocol.NewNumber(1)}

	result, err := svc.HandleRequest(context.Background(), protocol.PingRequest{}, rc)
	require.NoError(t, err)
	assert.Equal(t, protocol.EmptyResult{}, result)

	_, err = svc.HandleRequest(context.Background(), protocol.CallToolRequest{Name: "nope"}, rc)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeResourceNotFound))

	assert.Equal(t, inner.GetInfo(), svc.GetInfo())
}

func TestInstrumentRecordsMetrics(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{})
	require.NoError(t, err)

	svc := InstrumentServer(&stubServer{}, nil, m)
	rc := service.RequestContext[service.RoleServer]{ID: protocol.NewNumber(1)}
	ctx := context.Background()

	_, _ = svc.HandleRequest(ctx, protocol.PingRequest{}, rc)
	_, _ = svc.HandleRequest(ctx, protocol.PingRequest{}, rc)
	_, _ = svc.HandleRequest(ctx, protocol.CallToolRequest{Name: "nope"}, rc)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _ = svc.HandleRequest(cancelled, protocol.CallToolRequest{Name: "slow"}, rc)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("server", protocol.MethodPing, StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("server", protocol.MethodCallTool, StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("server", protocol.MethodCallTool, StatusCancelled)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inflightRequests.WithLabelValues("server")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))

	require.Error(t, svc.HandleNotification(ctx, protocol.RootsListChangedNotification{}))
	require.NoError(t, svc.HandleNotification(ctx, protocol.CancelledNotification{RequestID: protocol.NewNumber(1)}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationTotal.WithLabelValues("server", protocol.MethodRootsListChanged, StatusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationTotal.WithLabelValues("server", protocol.MethodCancelled, StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cancellationTotal.WithLabelValues("server")))
}

func TestInstrumentRecordsSpans(t *testing.T) {
	tp, exporter := newTestTracing(t)
	svc := InstrumentServer(&stubServer{}, tp, nil)
	rc := service.RequestContext[service.RoleServer]{ID: protocol.NewString("abc")}

	_, err := svc.HandleRequest(context.Background(), protocol.PingRequest{}, rc)
	require.NoError(t, err)
	_, err = svc.HandleRequest(context.Background(), protocol.CallToolRequest{Name: "nope"}, rc)
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "mcp.ping", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, AttrRole.String("server"))
	assert.Contains(t, spans[0].Attributes, AttrRequestID.String("abc"))
	assert.Contains(t, spans[0].Attributes, AttrMethod.String(protocol.MethodPing))

	assert.Equal(t, "mcp.tools/call", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	require.Len(t, spans[1].Events, 1)
	assert.Equal(t, "exception", spans[1].Events[0].Name)
}

func TestMethodSampler(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewTracingProvider(TracingConfig{
		Exporter:     exporter,
		SampleRate:   -1,
		AlwaysSample: []string{protocol.MethodCallTool},
	})
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	svc := InstrumentServer(&stubServer{}, tp, nil)
	rc := service.RequestContext[service.RoleServer]{ID: protocol.NewNumber(1)}
	_, _ = svc.HandleRequest(context.Background(), protocol.PingRequest{}, rc)
	_, _ = svc.HandleRequest(context.Background(), protocol.CallToolRequest{Name: "x"}, rc)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.tools/call", spans[0].Name)
}

func TestTracingResource(t *testing.T) {
	tp, exporter := newTestTracing(t)
	_, span := tp.StartMethodSpan(context.Background(), "ping", 0)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	attrs := spans[0].Resource.Attributes()
	assert.Contains(t, attrs, attribute.String("service.name", "test"))
	assert.Contains(t, attrs, attribute.String("deployment.environment", "development"))
}

func TestShutdownIsIdempotent(t *testing.T) {
	tp, err := NewTracingProvider(TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestParseExporterType(t *testing.T) {
	tests := []struct {
		in   string
		want ExporterType
		err  bool
	}{
		{"", ExporterTypeNoop, false},
		{"noop", ExporterTypeNoop, false},
		{"OTLP-GRPC", ExporterTypeOTLPGRPC, false},
		{"otlp-http", ExporterTypeOTLPHTTP, false},
		{"jaeger", "", true},
	}
	for _, tt := range tests {
		got, err := ParseExporterType(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusCancelled, StatusOf(context.Canceled))
	assert.Equal(t, StatusCancelled, StatusOf(mcperrors.OperationCancelled("x")))
	assert.Equal(t, StatusError, StatusOf(errors.New("boom")))
}

func TestMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(MetricsConfig{Registerer: reg})
	require.NoError(t, err)

	_, err = NewMetrics(MetricsConfig{Registerer: reg})
	assert.Error(t, err)
}

func TestTransportMiddlewareCountsFrames(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Namespace: "test"})
	require.NoError(t, err)

	a, b := transport.NewPipe()
	wrapped := m.TransportMiddleware().Wrap(a)
	defer wrapped.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, wrapped.Send(ctx, []byte(`{"a":1}`)))
	_, err = b.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Send(ctx, []byte(`{}`)))
	_, err = wrapped.Receive(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transportMessages.WithLabelValues("send", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transportMessages.WithLabelValues("receive", StatusOK)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.transportBytes.WithLabelValues("send")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transportBytes.WithLabelValues("receive")))
}

func TestMetricsHandler(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{})
	require.NoError(t, err)
	m.RecordRequest("server", "ping", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `mcp_requests_total{method="ping",role="server",status="ok"} 1`), body)
}
