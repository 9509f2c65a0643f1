// Package observability configures OpenTelemetry tracing for the suggestion
// pipeline. The service layer and the GORM plugin start their spans through
// the global tracer provider installed here, so setup must run before the
// router is built. Traces ship to an OTLP/gRPC collector.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"

	"github.com/edupulse/go-coach-backend/internal/config"
)

// Indirections so tests can inject construction failures.
var (
	newTraceClient = otlptracegrpc.NewClient

	newTraceExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.New(ctx, client)
	}

	newServiceResource = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return resource.New(ctx, resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		))
	}
)

// SetupOTel installs the global tracer provider and the W3C trace-context
// propagators per cfg and returns the provider's shutdown hook. With tracing
// disabled it returns a no-op shutdown so callers never branch. On error the
// globals are left untouched.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := buildExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res, err := newServiceResource(ctx, cfg.ServiceName, version)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// buildExporter dials the OTLP/gRPC endpoint: plaintext for local collectors,
// system-pool TLS otherwise. The connection itself is lazy; a missing
// collector surfaces at export time, never here.
func buildExporter(ctx context.Context, cfg config.OTELConfig) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}
	return newTraceExporter(ctx, newTraceClient(opts...))
}
