package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies this process in traces.
const ServiceName = "inventory-guard"

// Config holds configuration for the trace exporter.
type Config struct {
	// Enabled turns on span export.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// JaegerEndpoint is the collector HTTP endpoint.
	JaegerEndpoint string `mapstructure:"jaeger_endpoint" default:"http://localhost:14268/api/traces"`
}

// Init registers the global tracer provider and propagator. When tracing is
// disabled a no-op provider is installed and shutdown does nothing.
func Init(cfg Config) (shutdown func(context.Context) error, err error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracerProvider(ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		return nil, err
	}
	return tp.Shutdown, nil
}

// InitTracerProvider creates a provider that exports to Jaeger and sets it as global.
func InitTracerProvider(serviceName, jaegerEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
