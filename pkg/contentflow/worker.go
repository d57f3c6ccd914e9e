package contentflow

import (
	"fmt"
	"slices"
)

// Worker is a pipeline step. Process receives its own copy of the state and
// returns the updated state.
//
// A worker reports recoverable problems by appending to state.Errors and
// returning a nil error. A non-nil error (or a panic) is treated by the
// orchestrator as a fatal entry, which stops the run at the next decision.
type Worker interface {
	Process(ctx Context, state State) (State, error)
}

// WorkerFunc adapts a function to the Worker interface.
//
// Example:
//
//	noop := contentflow.WorkerFunc(func(ctx contentflow.Context, s contentflow.State) (contentflow.State, error) {
//	    return s, nil
//	})
type WorkerFunc func(ctx Context, state State) (State, error)

// Process calls f(ctx, state).
func (f WorkerFunc) Process(ctx Context, state State) (State, error) {
	return f(ctx, state)
}

// Registry maps agent labels to workers.
//
// Registry is not safe for concurrent mutation. Build it before Run and do
// not modify it while a run is in progress.
type Registry struct {
	workers map[Agent]Worker
}

// NewRegistry creates a registry from the given map. The map is copied.
//
// Panics if any worker is nil or any key is Finish or empty.
func NewRegistry(workers map[Agent]Worker) *Registry {
	r := &Registry{workers: make(map[Agent]Worker, len(workers))}
	for agent, w := range workers {
		r.Register(agent, w)
	}
	return r
}

// Register adds or replaces the worker for agent.
// Returns the registry for method chaining.
//
// Panics if:
//   - agent is empty
//   - agent is the reserved Finish sentinel
//   - w is nil
func (r *Registry) Register(agent Agent, w Worker) *Registry {
	if agent == "" {
		panic("contentflow: agent label cannot be empty")
	}
	if agent == Finish {
		panic(fmt.Sprintf("contentflow: agent label cannot be reserved word %q", Finish))
	}
	if w == nil {
		panic("contentflow: worker cannot be nil")
	}
	if r.workers == nil {
		r.workers = make(map[Agent]Worker)
	}
	r.workers[agent] = w
	return r
}

// Get returns the worker for agent and whether it exists.
func (r *Registry) Get(agent Agent) (Worker, bool) {
	if r == nil {
		return nil, false
	}
	w, ok := r.workers[agent]
	return w, ok
}

// Has reports whether a worker is registered for agent.
func (r *Registry) Has(agent Agent) bool {
	_, ok := r.Get(agent)
	return ok
}

// Agents returns the registered labels in sorted order.
func (r *Registry) Agents() []Agent {
	if r == nil {
		return nil
	}
	out := make([]Agent, 0, len(r.workers))
	for a := range r.workers {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered workers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.workers)
}
