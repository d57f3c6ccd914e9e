// Package observability provides structured logging, metrics, and tracing
// for contentflow runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds step context to a logger.
// Returns a new logger with run_id, step, and agent fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", 2, "researcher")
//	enriched.Info("doing work") // includes run_id, step, agent
func EnrichLogger(logger *slog.Logger, runID string, step int, agent string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int("step", step),
		slog.String("agent", agent),
	)
}

// LogRunStart logs the start of a run.
func LogRunStart(logger *slog.Logger, runID string, maxSteps int) {
	if logger == nil {
		return
	}
	logger.Info("run starting",
		slog.String("run_id", runID),
		slog.Int("max_steps", maxSteps),
	)
}

// LogRunComplete logs a run that reached a terminal state.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, steps int, errorCount int) {
	if logger == nil {
		return
	}
	logger.Info("run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("steps", steps),
		slog.Int("errors", errorCount),
	)
}

// LogRunFailed logs a run that stopped on a fatal error.
func LogRunFailed(logger *slog.Logger, runID string, lastError string, durationMs float64, steps int) {
	if logger == nil {
		return
	}
	logger.Error("run failed",
		slog.String("run_id", runID),
		slog.String("error", lastError),
		slog.Float64("duration_ms", durationMs),
		slog.Int("steps", steps),
	)
}

// LogRunExhausted logs a run that hit the step bound without completing.
func LogRunExhausted(logger *slog.Logger, runID string, maxSteps int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("run exhausted step limit",
		slog.String("run_id", runID),
		slog.Int("max_steps", maxSteps),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDecision logs a supervisor routing decision.
func LogDecision(logger *slog.Logger, next string, complete bool) {
	if logger == nil {
		return
	}
	logger.Debug("supervisor decided",
		slog.String("next_agent", next),
		slog.Bool("complete", complete),
	)
}

// LogStepStart logs worker dispatch.
func LogStepStart(logger *slog.Logger, step int, agent string) {
	if logger == nil {
		return
	}
	logger.Debug("step starting",
		slog.Int("step", step),
		slog.String("agent", agent),
	)
}

// LogStepComplete logs a worker returning.
func LogStepComplete(logger *slog.Logger, step int, agent string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("step completed",
		slog.Int("step", step),
		slog.String("agent", agent),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStepError logs a worker failure that was converted to a fatal entry.
func LogStepError(logger *slog.Logger, step int, agent string, err error) {
	if logger == nil {
		return
	}
	logger.Error("step failed",
		slog.Int("step", step),
		slog.String("agent", agent),
		slog.String("error", err.Error()),
	)
}

// LogReview logs a reviewer verdict.
func LogReview(logger *slog.Logger, passed bool, failures []string) {
	if logger == nil {
		return
	}
	if passed {
		logger.Info("review passed")
		return
	}
	logger.Warn("review rejected draft",
		slog.Any("failures", failures),
	)
}

// LogJournalError logs a journal write failure (non-fatal).
func LogJournalError(logger *slog.Logger, step int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal write failed",
		slog.Int("step", step),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
