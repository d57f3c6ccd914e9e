package contentflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for orchestrator misuse. Worker failures never surface as
// returned errors; they are recorded in State.Errors instead.
var (
	// ErrNilContext indicates Run() was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrNoSupervisor indicates the orchestrator was built without a supervisor.
	ErrNoSupervisor = errors.New("supervisor not configured")

	// ErrNoRegistry indicates the orchestrator was built without a worker registry.
	ErrNoRegistry = errors.New("worker registry not configured")

	// ErrUnknownAgent indicates the supervisor named a label with no registered worker.
	ErrUnknownAgent = errors.New("unknown agent")
)

// UnknownAgentError records a routing decision that names an unregistered worker.
type UnknownAgentError struct {
	Agent Agent
}

// Error implements the error interface.
// The text matches the entry appended to State.Errors.
func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("Unknown agent: %s", e.Agent)
}

// Unwrap returns ErrUnknownAgent for errors.Is support.
func (e *UnknownAgentError) Unwrap() error {
	return ErrUnknownAgent
}

// WorkerError wraps an error returned by a worker's Process method.
type WorkerError struct {
	// Agent is the label the worker was dispatched under.
	Agent Agent
	// Step is the 1-based dispatch number.
	Step int
	// Err is the underlying error from the worker.
	Err error
}

// Error implements the error interface.
func (e *WorkerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Agent, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *WorkerError) Unwrap() error {
	return e.Err
}

// PanicError captures panic information from a worker.
// It includes the stack trace for debugging.
type PanicError struct {
	// Agent is the label of the worker that panicked.
	Agent Agent
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Agent, e.Value)
}

// CancellationError captures the state when a run was cancelled.
// Cancellation is only observed between steps, never during a worker call.
type CancellationError struct {
	// Step is the number of dispatches completed before cancellation.
	Step int
	// State is the state at cancellation.
	State State
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled after step %d: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
