package contentflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context provides execution context to workers.
// It extends context.Context with run metadata and an enriched logger.
//
// Context is immutable after creation. The orchestrator derives a new
// Context for each step with the step number and agent label filled in.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and step context.
	// Never returns nil - defaults to slog.Default() if not configured.
	Logger() *slog.Logger

	// RunID returns the unique identifier for this run.
	// Auto-generated if not configured.
	RunID() string

	// Step returns the 1-based dispatch number, or 0 outside a step.
	Step() int

	// Agent returns the label of the worker being executed.
	// Empty outside a step.
	Agent() Agent
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger *slog.Logger
	runID  string
	step   int
	agent  Agent
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// RunID returns the run identifier.
func (c *executionContext) RunID() string {
	return c.runID
}

// Step returns the current step number.
func (c *executionContext) Step() int {
	return c.step
}

// Agent returns the current agent label.
func (c *executionContext) Agent() Agent {
	return c.agent
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithContextLogger sets the logger for the context.
// The logger is enriched with run_id, step, and agent during execution.
func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContextRunID sets the run identifier for the context.
// If not set, a UUID is generated.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) {
		if id != "" {
			c.runID = id
		}
	}
}

// NewContext creates an execution context from a standard context.
//
// Example:
//
//	ctx := contentflow.NewContext(context.Background(),
//	    contentflow.WithContextLogger(logger),
//	    contentflow.WithContextRunID("run-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// forStep returns a derived context for one dispatch.
func (c *executionContext) forStep(step int, agent Agent) *executionContext {
	return &executionContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", c.runID, "step", step, "agent", string(agent)),
		runID:   c.runID,
		step:    step,
		agent:   agent,
	}
}

// stepContext derives a step context from any Context implementation.
func stepContext(ctx Context, step int, agent Agent) Context {
	if ec, ok := ctx.(*executionContext); ok {
		return ec.forStep(step, agent)
	}
	return &executionContext{
		Context: ctx,
		logger:  ctx.Logger().With("run_id", ctx.RunID(), "step", step, "agent", string(agent)),
		runID:   ctx.RunID(),
		step:    step,
		agent:   agent,
	}
}
