package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for contentflow spans.
const TracerName = "contentflow"

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer(TracerName)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts a span for the entire run.
	StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span)

	// StartStepSpan starts a child span for one worker dispatch.
	StartStepSpan(ctx context.Context, step int, agent string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span for the entire run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return StartRunSpan(ctx, runID)
}

// StartStepSpan starts a span for a worker dispatch.
func (m *otelSpanManager) StartStepSpan(ctx context.Context, step int, agent string) (context.Context, trace.Span) {
	return StartStepSpan(ctx, step, agent)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartRunSpan starts a span for the entire run using the global tracer.
func StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "contentflow.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartStepSpan starts a span for a worker dispatch using the global tracer.
func StartStepSpan(ctx context.Context, step int, agent string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "contentflow.step."+agent,
		trace.WithAttributes(
			attribute.Int("step.number", step),
			attribute.String("step.agent", agent),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
