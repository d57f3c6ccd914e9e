package contentflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	noop := WorkerFunc(func(ctx Context, s State) (State, error) { return s, nil })

	r := NewRegistry(map[Agent]Worker{AgentResearcher: noop})
	r.Register(AgentDrafter, noop).Register(AgentIngestor, noop)

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Has(AgentDrafter))
	assert.False(t, r.Has(AgentReviewer))
	assert.Equal(t, []Agent{AgentDrafter, AgentIngestor, AgentResearcher}, r.Agents())

	w, ok := r.Get(AgentIngestor)
	require.True(t, ok)
	require.NotNil(t, w)

	t.Run("custom labels are allowed", func(t *testing.T) {
		r.Register("editor", noop)
		assert.True(t, r.Has("editor"))
	})

	t.Run("nil registry", func(t *testing.T) {
		var nilReg *Registry
		_, ok := nilReg.Get(AgentDrafter)
		assert.False(t, ok)
		assert.Zero(t, nilReg.Len())
		assert.Nil(t, nilReg.Agents())
	})

	t.Run("zero value registers", func(t *testing.T) {
		var zero Registry
		zero.Register(AgentDrafter, noop)
		assert.True(t, zero.Has(AgentDrafter))
	})
}

func TestRegistry_Panics(t *testing.T) {
	noop := WorkerFunc(func(ctx Context, s State) (State, error) { return s, nil })

	assert.PanicsWithValue(t, "contentflow: agent label cannot be empty", func() {
		NewRegistry(nil).Register("", noop)
	})
	assert.PanicsWithValue(t, `contentflow: agent label cannot be reserved word "FINISH"`, func() {
		NewRegistry(nil).Register(Finish, noop)
	})
	assert.PanicsWithValue(t, "contentflow: worker cannot be nil", func() {
		NewRegistry(map[Agent]Worker{AgentDrafter: nil})
	})
}

func TestContext(t *testing.T) {
	t.Run("generates run id", func(t *testing.T) {
		a := NewContext(context.Background())
		b := NewContext(context.Background())
		assert.NotEmpty(t, a.RunID())
		assert.NotEqual(t, a.RunID(), b.RunID())
		assert.NotNil(t, a.Logger())
		assert.Zero(t, a.Step())
		assert.Empty(t, a.Agent())
	})

	t.Run("options", func(t *testing.T) {
		logger := quietLogger()
		ctx := NewContext(context.Background(), WithContextRunID("run-9"), WithContextLogger(logger), WithContextLogger(nil))
		assert.Equal(t, "run-9", ctx.RunID())
		assert.Same(t, logger, ctx.Logger())
	})

	t.Run("step context", func(t *testing.T) {
		parent := NewContext(context.Background(), WithContextRunID("run-9"))
		step := stepContext(parent, 3, AgentDrafter)

		assert.Equal(t, "run-9", step.RunID())
		assert.Equal(t, 3, step.Step())
		assert.Equal(t, AgentDrafter, step.Agent())
		assert.Zero(t, parent.Step(), "parent is unchanged")
	})

	t.Run("cancellation propagates", func(t *testing.T) {
		base, cancel := context.WithCancel(context.Background())
		ctx := NewContext(base)
		step := stepContext(ctx, 1, AgentIngestor)
		cancel()
		assert.ErrorIs(t, step.Err(), context.Canceled)
	})
}

func TestErrorTypes(t *testing.T) {
	unknown := &UnknownAgentError{Agent: "editor"}
	assert.Equal(t, "Unknown agent: editor", unknown.Error())
	assert.ErrorIs(t, unknown, ErrUnknownAgent)

	cause := errors.New("quota")
	werr := &WorkerError{Agent: AgentResearcher, Step: 2, Err: cause}
	assert.Equal(t, "researcher: quota", werr.Error())
	assert.ErrorIs(t, werr, cause)

	perr := &PanicError{Agent: AgentDrafter, Value: "bad"}
	assert.Equal(t, "drafter panicked: bad", perr.Error())

	cerr := &CancellationError{Step: 3, Cause: context.Canceled}
	assert.Equal(t, "cancelled after step 3: context canceled", cerr.Error())
	assert.ErrorIs(t, cerr, context.Canceled)
}

func TestClassify(t *testing.T) {
	failed := State{IsComplete: true}
	failed.AddError("boom")

	tests := []struct {
		name  string
		state State
		want  Outcome
	}{
		{"success", func() State { s := fullState(); s.IsComplete = true; return s }(), OutcomeSuccess},
		{"fatal", failed, OutcomeFailed},
		{"not complete", fullState(), OutcomeExhausted},
		{"complete without pages", State{IsComplete: true}, OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.state)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "exhausted", OutcomeExhausted.String())
	assert.Equal(t, "unknown", Outcome(7).String())
}
