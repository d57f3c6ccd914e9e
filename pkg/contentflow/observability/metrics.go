package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope for contentflow metrics.
const MeterName = "contentflow"

// MetricsRecorder records contentflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordStep records one worker dispatch with its duration and error status.
	RecordStep(ctx context.Context, agent string, duration time.Duration, err error)

	// RecordRun records a finished run and how it ended
	// ("success", "failed", "exhausted", "cancelled").
	RecordRun(ctx context.Context, outcome string, steps int, duration time.Duration)

	// RecordReview records a reviewer verdict.
	RecordReview(ctx context.Context, passed bool)

	// RecordJournal records a journal write.
	RecordJournal(ctx context.Context, agent string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	stepDispatches metric.Int64Counter
	stepLatency    metric.Float64Histogram
	stepErrors     metric.Int64Counter
	runs           metric.Int64Counter
	runLatency     metric.Float64Histogram
	runSteps       metric.Int64Histogram
	reviews        metric.Int64Counter
	journalSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter(MeterName)

	stepDispatches, err := meter.Int64Counter("contentflow.step.dispatches",
		metric.WithDescription("Number of worker dispatches"),
	)
	if err != nil {
		return nil, err
	}

	stepLatency, err := meter.Float64Histogram("contentflow.step.latency_ms",
		metric.WithDescription("Worker execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter("contentflow.step.errors",
		metric.WithDescription("Number of worker failures converted to fatal entries"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("contentflow.run.runs",
		metric.WithDescription("Number of finished runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("contentflow.run.latency_ms",
		metric.WithDescription("Run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runSteps, err := meter.Int64Histogram("contentflow.run.steps",
		metric.WithDescription("Worker dispatches per run"),
	)
	if err != nil {
		return nil, err
	}

	reviews, err := meter.Int64Counter("contentflow.review.outcomes",
		metric.WithDescription("Reviewer verdicts"),
	)
	if err != nil {
		return nil, err
	}

	journalSize, err := meter.Int64Histogram("contentflow.journal.size_bytes",
		metric.WithDescription("Journal entry size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		stepDispatches: stepDispatches,
		stepLatency:    stepLatency,
		stepErrors:     stepErrors,
		runs:           runs,
		runLatency:     runLatency,
		runSteps:       runSteps,
		reviews:        reviews,
		journalSize:    journalSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordStep records a worker dispatch.
func (m *otelMetrics) RecordStep(ctx context.Context, agent string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("agent", agent))

	m.stepDispatches.Add(ctx, 1, attrs)
	m.stepLatency.Record(ctx, float64(duration.Milliseconds()), attrs)

	if err != nil {
		m.stepErrors.Add(ctx, 1, attrs)
	}
}

// RecordRun records a finished run.
func (m *otelMetrics) RecordRun(ctx context.Context, outcome string, steps int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	m.runSteps.Record(ctx, int64(steps), attrs)
}

// RecordReview records a reviewer verdict.
func (m *otelMetrics) RecordReview(ctx context.Context, passed bool) {
	m.reviews.Add(ctx, 1, metric.WithAttributes(attribute.Bool("passed", passed)))
}

// RecordJournal records a journal write.
func (m *otelMetrics) RecordJournal(ctx context.Context, agent string, sizeBytes int64) {
	m.journalSize.Record(ctx, sizeBytes, metric.WithAttributes(attribute.String("agent", agent)))
}
