// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/joeshaw/envdecode"

	"github.com/ajitpratap0/mcp-service-go/pkg/logging"
	"github.com/ajitpratap0/mcp-service-go/pkg/observability"
	"github.com/ajitpratap0/mcp-service-go/pkg/transport"
)

// Config holds the settings shared by MCP clients and servers. Defaults come
// from the struct tags.
type Config struct {
	// Name and Version identify the implementation. ENV: MCP_NAME, MCP_VERSION
	Name    string `env:"MCP_NAME,default=mcp-service"`
	Version string `env:"MCP_VERSION,default=0.1.0"`

	LogLevel  string `env:"MCP_LOG_LEVEL,default=info"`
	LogFormat string `env:"MCP_LOG_FORMAT,default=text"`

	// TracingExporter is one of noop, otlp-grpc or otlp-http
	TracingExporter   string  `env:"MCP_TRACING_EXPORTER,default=noop"`
	TracingEndpoint   string  `env:"MCP_TRACING_ENDPOINT"`
	TracingInsecure   bool    `env:"MCP_TRACING_INSECURE,default=false"`
	TracingSampleRate float64 `env:"MCP_TRACING_SAMPLE_RATE,default=1"`

	MetricsNamespace string `env:"MCP_METRICS_NAMESPACE,default=mcp"`
	// MetricsAddr, when set, is where the metrics endpoint listens
	MetricsAddr string `env:"MCP_METRICS_ADDR"`

	// MaxMessageSize bounds one framed message in bytes
	MaxMessageSize int `env:"MCP_MAX_MESSAGE_SIZE,default=4194304"`
}

// FromEnv decodes a Config from the environment and validates it
func FromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the module cannot use
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("config: name must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if _, err := observability.ParseExporterType(c.TracingExporter); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("config: sample rate %v outside [0, 1]", c.TracingSampleRate)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("config: max message size must be positive, got %d", c.MaxMessageSize)
	}
	return nil
}

// Logger builds the logger described by c writing to w
func (c Config) Logger(w io.Writer) (logging.Logger, error) {
	return logging.NewFromConfig(c.LogLevel, c.LogFormat, w)
}

// Tracing returns the tracing settings described by c
func (c Config) Tracing() observability.TracingConfig {
	exporter, _ := observability.ParseExporterType(c.TracingExporter)
	rate := c.TracingSampleRate
	if rate == 0 {
		// A zero rate would otherwise be read as "unset".
		rate = -1
	}
	return observability.TracingConfig{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		ExporterType:   exporter,
		Endpoint:       c.TracingEndpoint,
		Insecure:       c.TracingInsecure,
		SampleRate:     rate,
	}
}

// Metrics returns the metrics settings described by c
func (c Config) Metrics() observability.MetricsConfig {
	return observability.MetricsConfig{Namespace: c.MetricsNamespace}
}

// TransportOptions returns the transport options described by c
func (c Config) TransportOptions(logger logging.Logger) []transport.Option {
	opts := []transport.Option{transport.WithMaxMessageSize(c.MaxMessageSize)}
	if logger != nil {
		opts = append(opts, transport.WithLogger(logger))
	}
	return opts
}
