// Package telemetry sets up OTLP trace export.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider exports spans to an OTLP/HTTP collector.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// endpointOptions accepts either a collector URL (http://host:4318, as
// OTEL_EXPORTER_OTLP_ENDPOINT is usually written) or a bare host:port, which
// is sent over plain HTTP.
func endpointOptions(endpoint string) ([]otlptracehttp.Option, error) {
	if !strings.Contains(endpoint, "://") {
		return []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		}, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("otlp endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("otlp endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}, nil
}

// New returns nil (tracing disabled) when endpoint is empty.
func New(ctx context.Context, endpoint, serviceName string) (*Provider, error) {
	if endpoint == "" {
		return nil, nil
	}
	opts, err := endpointOptions(endpoint)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if serviceName == "" {
		serviceName = "fluidcalc"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	return &Provider{
		provider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		),
	}, nil
}

// TracerProvider returns a no-op provider when p is nil.
func (p *Provider) TracerProvider() oteltrace.TracerProvider {
	if p == nil {
		return noop.NewTracerProvider()
	}
	return p.provider
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
