package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartJobSpan_RecordsTaskTypeAndJobKey(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartJobSpan(context.Background(), "compose-poster", 42)
	require.NotNil(t, ctx)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "compose-poster", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("task.type", "compose-poster"))
	assert.Contains(t, spans[0].Attributes, attribute.Int64("job.key", 42))
}

func TestNewTracing_EmptyEndpointStillSpans(t *testing.T) {
	tracing := NewTracing("poster-workers-test", "")
	defer tracing.Shutdown()

	ctx, span := StartJobSpan(context.Background(), "record-usage", 7)
	assert.NotNil(t, ctx)
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
