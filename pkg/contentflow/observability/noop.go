package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordStep does nothing.
func (NoopMetrics) RecordStep(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordRun does nothing.
func (NoopMetrics) RecordRun(_ context.Context, _ string, _ int, _ time.Duration) {}

// RecordReview does nothing.
func (NoopMetrics) RecordReview(_ context.Context, _ bool) {}

// RecordJournal does nothing.
func (NoopMetrics) RecordJournal(_ context.Context, _ string, _ int64) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartRunSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRunSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartStepSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartStepSpan(ctx context.Context, _ int, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
