package otel

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
	"google.golang.org/grpc/credentials"
)

// OTLPProtocol defines the protocol to use for OTLP export.
type OTLPProtocol string

const (
	// ProtocolGRPC uses gRPC protocol for OTLP export (default: port 4317).
	ProtocolGRPC OTLPProtocol = "grpc"
	// ProtocolHTTP uses HTTP/protobuf protocol for OTLP export (default: port 4318).
	ProtocolHTTP OTLPProtocol = "http"
)

// DefaultExportInterval is how often the periodic reader pushes metrics.
const DefaultExportInterval = 15 * time.Second

// Config holds the configuration for the OTLP meter provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPProtocol   OTLPProtocol // "grpc" or "http", defaults to "grpc"

	// Security configuration
	Insecure  bool        // Allow insecure connections (only for non-production environments)
	TLSConfig *tls.Config // Custom TLS configuration (optional, uses system defaults if nil)

	ExportInterval time.Duration

	// Resource attributes (optional)
	ResourceAttributes map[string]string

	// Logger receives configuration warnings. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName:    serviceName,
		ServiceVersion: "unknown",
		Environment:    "development",
		OTLPEndpoint:   "localhost:4317",
		OTLPProtocol:   ProtocolGRPC,
		ExportInterval: DefaultExportInterval,
	}
}

// normalizeProtocol normalizes the protocol string to a valid OTLPProtocol.
func normalizeProtocol(protocol string) OTLPProtocol {
	switch strings.ToLower(protocol) {
	case "http", "http/protobuf":
		return ProtocolHTTP
	default:
		return ProtocolGRPC
	}
}

// validateConfig validates the exporter configuration.
func validateConfig(config *Config) error {
	if config.ServiceName == "" {
		return fmt.Errorf("otel: service name cannot be empty")
	}
	if config.OTLPEndpoint == "" {
		return fmt.Errorf("otel: endpoint cannot be empty")
	}
	if config.ExportInterval < 0 {
		return fmt.Errorf("otel: export interval cannot be negative")
	}

	env := strings.ToLower(config.Environment)
	if config.Insecure && (env == "production" || env == "prod") {
		return fmt.Errorf("otel: insecure connections are not allowed in production environment")
	}

	if config.TLSConfig != nil && config.TLSConfig.MinVersion > 0 && config.TLSConfig.MinVersion < tls.VersionTLS12 {
		return fmt.Errorf("otel: minimum TLS version must be 1.2 or higher")
	}

	return nil
}

// NewMeterProvider creates an SDK meter provider exporting over OTLP.
// The caller owns the provider and must call Shutdown to flush pending metrics.
func NewMeterProvider(ctx context.Context, config *Config) (*sdkmetric.MeterProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("otel: config cannot be nil")
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.Insecure {
		logger.Warn("using insecure OTLP connection",
			zap.String("endpoint", config.OTLPEndpoint),
			zap.String("environment", config.Environment),
		)
	}
	if config.TLSConfig != nil && config.TLSConfig.InsecureSkipVerify {
		logger.Warn("TLS verification is disabled for OTLP export")
	}

	config.OTLPProtocol = normalizeProtocol(string(config.OTLPProtocol))

	res, err := createResource(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("otel: failed to create resource: %w", err)
	}

	exporter, err := createMetricExporter(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("otel: failed to create metrics exporter: %w", err)
	}

	interval := config.ExportInterval
	if interval == 0 {
		interval = DefaultExportInterval
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	), nil
}

// createResource creates an OTLP resource with service information.
func createResource(ctx context.Context, config *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironment(config.Environment),
	}

	for k, v := range config.ResourceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.New(ctx, resource.WithAttributes(attrs...))
}

// createMetricExporter creates the appropriate metric exporter based on protocol.
func createMetricExporter(ctx context.Context, config *Config) (sdkmetric.Exporter, error) {
	if config.OTLPProtocol == ProtocolHTTP {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(config.OTLPEndpoint),
		}

		if config.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		} else if config.TLSConfig != nil {
			opts = append(opts, otlpmetrichttp.WithTLSClientConfig(config.TLSConfig))
		}

		return otlpmetrichttp.New(ctx, opts...)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(config.OTLPEndpoint),
	}

	if config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else if config.TLSConfig != nil {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(config.TLSConfig)))
	}

	return otlpmetricgrpc.New(ctx, opts...)
}
