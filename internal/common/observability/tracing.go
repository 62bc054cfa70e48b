package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps the tracer provider used to span worker execute paths.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// NewTracing configures a Jaeger-exported tracer provider. An empty endpoint
// disables export but still returns a usable tracer.
func NewTracing(serviceName, jaegerEndpoint string) *Tracing {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	}

	if jaegerEndpoint != "" {
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
		if err != nil {
			log.Printf("Failed to create Jaeger exporter: %v", err)
		} else {
			opts = append(opts, sdktrace.WithBatcher(exporter))
		}
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return &Tracing{provider: provider}
}

// StartJobSpan opens a span for a single job execution on the globally
// installed tracer provider. Handlers wrap their execute path in it; the
// error handler records failures onto whatever span is in the context.
func StartJobSpan(ctx context.Context, taskType string, jobKey int64) (context.Context, trace.Span) {
	return otel.Tracer("poster-workers").Start(ctx, taskType, trace.WithAttributes(
		attribute.String("task.type", taskType),
		attribute.Int64("job.key", jobKey),
	))
}

func (t *Tracing) Shutdown() {
	if t.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.provider.Shutdown(ctx)
	}
}
