package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Version is reported as the service version on traces and in the
// analytics library context.
const Version = "1.0.0"

// InitTracing initializes OpenTelemetry tracing, exporting spans over OTLP
// gRPC to endpoint. environment is the partner environment (STAGE, UAT,
// PROD) and is attached to every span's resource.
// It returns a shutdown function that flushes pending spans and should be
// called when the session or server exits.
func InitTracing(ctx context.Context, logger *zap.Logger, serviceName, endpoint, environment string, sampleRate float64) (func(), error) {
	// Create resource with service information
	res := resource.NewWithAttributes(
		"", // No schema URL to avoid conflicts
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(Version),
		attribute.String("environment", environment),
	)

	// Create OTLP exporter
	exporter, err := otlptrace.New(ctx,
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	// Configure sampler based on sample rate
	var sampler sdktrace.Sampler
	switch {
	case sampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case sampleRate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(sampleRate)
	}

	// Create trace provider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	// Set global tracer provider and propagator so otelhttp spans on the
	// partner calls join the caller's trace
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("service", serviceName),
		zap.String("endpoint", endpoint),
		zap.Float64("sample_rate", sampleRate),
	)

	// Return shutdown function
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}, nil
}

// Tracer returns a tracer for the given component name from the global
// provider. Components are namespaced under the module path, e.g.
// Tracer("rtps") for the pre-screen controller.
func Tracer(component string) trace.Tracer {
	return otel.Tracer("github.com/patrickwarner/partnersdk/" + component)
}
