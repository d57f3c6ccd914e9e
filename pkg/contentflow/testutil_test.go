package contentflow

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Test helpers shared across the package tests.

// tracker records dispatch order across workers.
type tracker struct {
	mu    sync.Mutex
	calls []Agent
}

func (t *tracker) add(a Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, a)
}

func (t *tracker) count(a Agent) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.calls {
		if c == a {
			n++
		}
	}
	return n
}

// tracked wraps a worker so each dispatch is recorded.
func tracked(tr *tracker, label Agent, w Worker) Worker {
	return WorkerFunc(func(ctx Context, s State) (State, error) {
		tr.add(label)
		return w.Process(ctx, s)
	})
}

// stubIngestor fills ProductData with a minimal record.
func stubIngestor() WorkerFunc {
	return func(ctx Context, s State) (State, error) {
		s.ProductData = map[string]any{"product_name": "Glow Serum", "price": "$50"}
		return s, nil
	}
}

// stubResearcher fills competitor data and questions.
func stubResearcher() WorkerFunc {
	return func(ctx Context, s State) (State, error) {
		s.CompetitorData = map[string]any{"product_name": "Radiance Boost"}
		s.GeneratedQuestions = []string{"Q1", "Q2", "Q3", "Q4"}
		return s, nil
	}
}

// stubDrafter fills every missing page; the FAQ gets n questions.
func stubDrafter(n int) WorkerFunc {
	return func(ctx Context, s State) (State, error) {
		if s.ProductPage == nil {
			s.ProductPage = Page{"content": map[string]any{"description": "Bright."}}
		}
		if s.FAQPage == nil {
			qs := make([]any, n)
			for i := range qs {
				qs[i] = "question"
			}
			s.FAQPage = Page{"questions": qs}
		}
		if s.ComparisonPage == nil {
			s.ComparisonPage = Page{"table": []any{}}
		}
		return s, nil
	}
}

// failingWorker returns err without touching the state it returns.
func failingWorker(err error) WorkerFunc {
	return func(ctx Context, s State) (State, error) {
		return s, err
	}
}

// panickingWorker panics with v.
func panickingWorker(v any) WorkerFunc {
	return func(ctx Context, s State) (State, error) {
		panic(v)
	}
}

// pipeline returns a registry with stub workers and the real Reviewer.
func pipeline(tr *tracker, faqQuestions int) *Registry {
	return NewRegistry(map[Agent]Worker{
		AgentIngestor:   tracked(tr, AgentIngestor, stubIngestor()),
		AgentResearcher: tracked(tr, AgentResearcher, stubResearcher()),
		AgentDrafter:    tracked(tr, AgentDrafter, stubDrafter(faqQuestions)),
		AgentReviewer:   tracked(tr, AgentReviewer, NewReviewer()),
	})
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCtx creates a context with a discarded logger.
func testCtx() Context {
	return NewContext(context.Background(), WithContextLogger(quietLogger()))
}

// fullState returns a state with every page present.
func fullState() State {
	return State{
		ProductData:        map[string]any{"product_name": "Glow Serum"},
		CompetitorData:     map[string]any{"product_name": "Radiance Boost"},
		GeneratedQuestions: []string{"Q1"},
		ProductPage:        Page{"content": "Bright."},
		FAQPage:            Page{"questions": []any{"a", "b", "c"}},
		ComparisonPage:     Page{"table": []any{}},
	}
}
