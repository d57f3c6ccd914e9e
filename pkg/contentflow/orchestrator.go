package contentflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/contentflow/pkg/contentflow/journal"
	"github.com/randalmurphal/contentflow/pkg/contentflow/observability"
)

// Orchestrator drives a run: it asks the Supervisor for the next agent,
// dispatches the matching worker, and repeats until the Supervisor signals
// completion or the step bound is reached.
//
// An Orchestrator holds no per-run state and may be reused across runs.
type Orchestrator struct {
	supervisor *Supervisor
	registry   *Registry
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(supervisor *Supervisor, registry *Registry) *Orchestrator {
	return &Orchestrator{
		supervisor: supervisor,
		registry:   registry,
	}
}

// Run executes the pipeline starting from initial and returns the final state.
//
// Worker failures never surface as errors. A worker that returns an error or
// panics is recorded as a fatal entry in State.Errors, which the Supervisor
// turns into completion on the next decision. Reaching the step bound is also
// not an error; the returned state simply has IsComplete == false.
//
// The returned error is reserved for misuse (nil context, missing supervisor
// or registry) and for cancellation, which is checked between steps. On
// cancellation the error is a *CancellationError carrying the state so far.
//
// Example:
//
//	ctx := contentflow.NewContext(context.Background())
//	final, err := orch.Run(ctx, contentflow.NewStateFromProduct(data))
//	if err != nil {
//	    return err
//	}
//	switch contentflow.Classify(final) { ... }
func (o *Orchestrator) Run(ctx Context, initial State, opts ...RunOption) (result State, runErr error) {
	if ctx == nil {
		return initial, ErrNilContext
	}
	if o == nil || o.supervisor == nil {
		return initial, ErrNoSupervisor
	}
	if o.registry == nil {
		return initial, ErrNoRegistry
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	runID := cfg.runID
	if runID == "" {
		runID = ctx.RunID()
	} else {
		ctx = NewContext(ctx, WithContextLogger(ctx.Logger()), WithContextRunID(runID))
	}
	logger := cfg.logger
	if logger == nil {
		logger = ctx.Logger()
	}

	startTime := time.Now()
	observability.LogRunStart(logger, runID, cfg.maxSteps)

	tracingCtx, runSpan := cfg.spans.StartRunSpan(ctx, runID)
	defer func() {
		cfg.spans.EndSpanWithError(runSpan, runErr)
	}()

	r := &run{
		ctx:        ctx,
		tracingCtx: tracingCtx,
		cfg:        &cfg,
		logger:     logger,
		runID:      runID,
	}

	result, steps, runErr := o.loop(r, initial.Clone())

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	if runErr != nil {
		observability.LogRunFailed(logger, runID, runErr.Error(), durationMs, steps)
		cfg.metrics.RecordRun(ctx, "cancelled", steps, duration)
		return result, runErr
	}

	outcome := Classify(result)
	cfg.metrics.RecordRun(ctx, outcome.String(), steps, duration)

	switch outcome {
	case OutcomeSuccess:
		observability.LogRunComplete(logger, runID, durationMs, steps, len(result.Errors))
	case OutcomeExhausted:
		observability.LogRunExhausted(logger, runID, cfg.maxSteps, durationMs)
	default:
		last, _ := result.LastError()
		observability.LogRunFailed(logger, runID, last.String(), durationMs, steps)
	}

	return result, nil
}

// run carries per-run values through the loop.
type run struct {
	ctx        Context
	tracingCtx context.Context
	cfg        *runConfig
	logger     *slog.Logger
	runID      string
}

// loop is the decide/dispatch cycle. Returns the final state and the
// number of dispatches performed.
func (o *Orchestrator) loop(r *run, state State) (State, int, error) {
	steps := 0
	r.record(0, "", state, 0, false)

	// closing is set when a decision follows the last dispatch. That
	// decision gets its own entry so the dispatch entry stays intact.
	var closing, closingFailed bool
	var closingAgent Agent

	for !state.IsComplete && steps < r.cfg.maxSteps {
		if err := r.ctx.Err(); err != nil {
			return state, steps, &CancellationError{
				Step:  steps,
				State: state,
				Cause: err,
			}
		}

		state = o.supervisor.Decide(state)
		observability.LogDecision(r.logger, string(state.NextAgent), state.IsComplete)
		if state.IsComplete {
			closing = true
			break
		}

		label := state.NextAgent
		worker, ok := o.registry.Get(label)
		if !ok {
			unknown := &UnknownAgentError{Agent: label}
			state.AddAgentError(label, unknown.Error())
			observability.LogStepError(r.logger, steps+1, string(label), unknown)
			// The trailing fatal entry trips the breaker; let the
			// Supervisor mark the run complete before stopping.
			state = o.supervisor.Decide(state)
			closing, closingAgent, closingFailed = true, label, true
			break
		}

		steps++
		var elapsed time.Duration
		var failed bool
		state, elapsed, failed = r.dispatch(steps, label, worker, state)
		state.LastAgent = label
		r.record(steps, label, state, elapsed, failed)
	}

	if closing {
		r.record(steps+1, closingAgent, state, 0, closingFailed)
	}
	return state, steps, nil
}

// dispatch runs one worker on a copy of state. A worker error or panic
// leaves the input state in place plus one fatal entry.
func (r *run) dispatch(step int, label Agent, worker Worker, state State) (State, time.Duration, bool) {
	stepCtx := stepContext(r.ctx, step, label)
	agent := string(label)

	observability.LogStepStart(r.logger, step, agent)
	spanCtx, span := r.cfg.spans.StartStepSpan(r.tracingCtx, step, agent)

	start := time.Now()
	out, err := execute(stepCtx, label, worker, state.Clone())
	elapsed := time.Since(start)

	r.cfg.metrics.RecordStep(spanCtx, agent, elapsed, err)
	r.cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogStepError(r.logger, step, agent, err)
		state.AddAgentError(label, err.Error())
		return state, elapsed, true
	}

	observability.LogStepComplete(r.logger, step, agent, float64(elapsed.Milliseconds()))
	return out, elapsed, false
}

// execute calls the worker with panic recovery.
func execute(ctx Context, label Agent, worker Worker, state State) (result State, err error) {
	defer func() {
		if v := recover(); v != nil {
			result = state
			err = &PanicError{
				Agent: label,
				Value: v,
				Stack: string(debug.Stack()),
			}
		}
	}()

	result, err = worker.Process(ctx, state)
	if err != nil {
		return result, &WorkerError{
			Agent: label,
			Step:  ctx.Step(),
			Err:   err,
		}
	}
	return result, nil
}

// record appends a journal entry for step. Failures are logged only.
func (r *run) record(step int, agent Agent, state State, elapsed time.Duration, failed bool) {
	if r.cfg.journal == nil {
		return
	}

	stateBytes, err := json.Marshal(state)
	if err != nil {
		observability.LogJournalError(r.logger, step, err)
		return
	}

	entry := journal.New(r.runID, step, string(agent), stateBytes)
	entry.NextAgent = string(state.NextAgent)
	entry.Complete = state.IsComplete
	entry.Pages = state.PresentPages()
	entry.Errors = state.ErrorStrings()
	entry.Duration = elapsed
	entry.StepFailed = failed

	data, err := entry.Marshal()
	if err != nil {
		observability.LogJournalError(r.logger, step, err)
		return
	}

	if err := r.cfg.journal.Append(r.runID, step, data); err != nil {
		observability.LogJournalError(r.logger, step, err)
		return
	}
	r.cfg.metrics.RecordJournal(r.ctx, string(agent), int64(len(data)))
}
