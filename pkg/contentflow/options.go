package contentflow

import (
	"log/slog"

	"github.com/randalmurphal/contentflow/pkg/contentflow/journal"
	"github.com/randalmurphal/contentflow/pkg/contentflow/observability"
)

// DefaultMaxSteps bounds the number of worker dispatches in one run.
const DefaultMaxSteps = 15

// runConfig holds configuration for one orchestrator run.
type runConfig struct {
	maxSteps int
	runID    string

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool

	journal journal.Store
}

// defaultRunConfig returns the default run configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		maxSteps: DefaultMaxSteps,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
}

// RunOption configures a run.
type RunOption func(*runConfig)

// WithMaxSteps sets the maximum number of worker dispatches.
// Default: 15
//
// Reaching the bound is not an error. Run returns the state as it stands
// with IsComplete still false; see Classify.
//
// Example:
//
//	final, err := orch.Run(ctx, state, contentflow.WithMaxSteps(30))
func WithMaxSteps(n int) RunOption {
	return func(c *runConfig) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

// WithRunID sets the run identifier used for logging, spans, and the journal.
// If not set, the Context's RunID is used.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithLogger sets the logger for run-level events.
// If not set, the Context's logger is used.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the run.
// Metrics go to the global MeterProvider.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans for the run and each step.
// Spans go to the global TracerProvider.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithJournal records the state after each step to store.
// Journal failures are logged and never stop the run.
func WithJournal(store journal.Store) RunOption {
	return func(c *runConfig) {
		c.journal = store
	}
}
