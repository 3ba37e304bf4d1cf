package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mcperrors "github.com/ajitpratap0/mcp-service-go/pkg/errors"
)

// Status label values
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// MetricsConfig configures Metrics
type MetricsConfig struct {
	// Metric options
	Namespace        string    // Prometheus namespace (default: mcp)
	Subsystem        string    // Prometheus subsystem
	HistogramBuckets []float64 // Latency buckets in seconds

	// Labels to add to all metrics
	ConstLabels prometheus.Labels

	// Registerer receives the collectors. A private registry is created
	// when nil.
	Registerer prometheus.Registerer
}

// Metrics records MCP traffic in Prometheus collectors.
type Metrics struct {
	config   MetricsConfig
	gatherer prometheus.Gatherer

	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	inflightRequests  *prometheus.GaugeVec
	notificationTotal *prometheus.CounterVec
	cancellationTotal *prometheus.CounterVec
	transportMessages *prometheus.CounterVec
	transportBytes    *prometheus.CounterVec
}

// NewMetrics creates and registers the MCP collectors
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp"
	}
	if config.HistogramBuckets == nil {
		config.HistogramBuckets = prometheus.DefBuckets
	}

	var gatherer prometheus.Gatherer
	if config.Registerer == nil {
		registry := prometheus.NewRegistry()
		config.Registerer = registry
		gatherer = registry
	} else if g, ok := config.Registerer.(prometheus.Gatherer); ok {
		gatherer = g
	} else {
		gatherer = prometheus.DefaultGatherer
	}

	m := &Metrics{config: config, gatherer: gatherer}
	m.initializeMetrics()

	if err := m.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initializeMetrics() {
	m.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of MCP requests handled",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"role", "method", "status"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Time spent handling MCP requests",
			Buckets:     m.config.HistogramBuckets,
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"role", "method"},
	)

	m.inflightRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "inflight_requests",
			Help:        "Number of MCP requests currently being handled",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"role"},
	)

	m.notificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of MCP notifications handled",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"role", "method", "status"},
	)

	m.cancellationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "cancellations_total",
			Help:        "Total number of cancellation notifications received",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"role"},
	)

	m.transportMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "transport_messages_total",
			Help:        "Total number of framed messages moved by the transport",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"direction", "status"},
	)

	m.transportBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        "transport_bytes_total",
			Help:        "Total number of bytes moved by the transport",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"direction"},
	)
}

func (m *Metrics) registerMetrics() error {
	collectors := []prometheus.Collector{
		m.requestTotal,
		m.requestDuration,
		m.inflightRequests,
		m.notificationTotal,
		m.cancellationTotal,
		m.transportMessages,
		m.transportBytes,
	}
	for _, c := range collectors {
		if err := m.config.Registerer.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest counts a handled request and observes its latency
func (m *Metrics) RecordRequest(role, method string, err error, duration time.Duration) {
	m.requestTotal.WithLabelValues(role, method, StatusOf(err)).Inc()
	m.requestDuration.WithLabelValues(role, method).Observe(duration.Seconds())
}

// RequestStarted tracks an in-flight request until the returned func is called
func (m *Metrics) RequestStarted(role string) func() {
	g := m.inflightRequests.WithLabelValues(role)
	g.Inc()
	return g.Dec
}

// RecordNotification counts a handled notification
func (m *Metrics) RecordNotification(role, method string, err error) {
	m.notificationTotal.WithLabelValues(role, method, StatusOf(err)).Inc()
}

// RecordCancellation counts a cancellation received by role
func (m *Metrics) RecordCancellation(role string) {
	m.cancellationTotal.WithLabelValues(role).Inc()
}

// RecordTransport counts one message moved in direction ("send" or "receive")
func (m *Metrics) RecordTransport(direction string, size int, err error) {
	m.transportMessages.WithLabelValues(direction, StatusOf(err)).Inc()
	if err == nil {
		m.transportBytes.WithLabelValues(direction).Add(float64(size))
	}
}

// Handler serves the collected metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the gatherer holding the collectors
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// StatusOf maps an outcome to a status label
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.Canceled),
		mcperrors.IsCategory(err, mcperrors.CategoryCancelled):
		return StatusCancelled
	default:
		return StatusError
	}
}
