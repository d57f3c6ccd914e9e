package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/agents"
	"github.com/randalmurphal/contentflow/pkg/contentflow/journal"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
)

var questions = []string{
	"How often do I apply it?",
	"Is it safe for sensitive skin?",
	"Can I use it with retinol?",
	"When will I see results?",
}

func glowSerum() map[string]any {
	return map[string]any{
		"product_name":    "Glow Serum",
		"price":           "$50",
		"concentration":   "10% Vitamin C",
		"key_ingredients": []any{"Vitamin C", "Hyaluronic Acid"},
		"benefits":        []any{"Brightening", "Hydration"},
	}
}

func research(_ contentflow.Context, s contentflow.State) (contentflow.State, error) {
	s.CompetitorData = map[string]any{"product_name": "Radiance Boost", "price": "$45"}
	s.GeneratedQuestions = append([]string(nil), questions...)
	return s, nil
}

// stubOrchestrator wires workers that never call a model.
func stubOrchestrator() *contentflow.Orchestrator {
	registry := contentflow.NewRegistry(map[contentflow.Agent]contentflow.Worker{
		contentflow.AgentIngestor:   agents.NewIngestor(nil),
		contentflow.AgentResearcher: contentflow.WorkerFunc(research),
		contentflow.AgentDrafter:    agents.NewDrafter(nil),
		contentflow.AgentReviewer:   contentflow.NewReviewer(),
	})
	return contentflow.NewOrchestrator(contentflow.NewSupervisor(), registry)
}

// BenchmarkRun_Stubbed runs the full pipeline with model-free workers.
func BenchmarkRun_Stubbed(b *testing.B) {
	orch := stubOrchestrator()
	ctx := contentflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = orch.Run(ctx, contentflow.NewStateFromProduct(glowSerum()))
	}
}

// BenchmarkRun_MockModel runs the full pipeline against a scripted model.
func BenchmarkRun_MockModel(b *testing.B) {
	client := llm.NewMockClient("").WithResponses(
		`{"product_name":"Radiance Boost","price":"$45"}`,
		`{"questions":["Q1","Q2","Q3","Q4"]}`,
		`{"description":"A bright serum."}`,
	)
	registry := contentflow.NewRegistry(map[contentflow.Agent]contentflow.Worker{
		contentflow.AgentIngestor:   agents.NewIngestor(client),
		contentflow.AgentResearcher: agents.NewResearcher(client),
		contentflow.AgentDrafter:    agents.NewDrafter(client),
		contentflow.AgentReviewer:   contentflow.NewReviewer(),
	})
	orch := contentflow.NewOrchestrator(contentflow.NewSupervisor(), registry)
	ctx := contentflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.Reset()
		_, _ = orch.Run(ctx, contentflow.NewStateFromProduct(glowSerum()))
	}
}

// BenchmarkRun_WithJournal runs the pipeline recording every step.
func BenchmarkRun_WithJournal(b *testing.B) {
	orch := stubOrchestrator()
	store := journal.NewMemoryStore()
	defer store.Close()
	ctx := contentflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = orch.Run(ctx, contentflow.NewStateFromProduct(glowSerum()),
			contentflow.WithJournal(store), contentflow.WithRunID("bench"))
	}
}

// BenchmarkRun_Exhausted runs until the step bound with every draft rejected.
func BenchmarkRun_Exhausted(b *testing.B) {
	short := func(_ contentflow.Context, s contentflow.State) (contentflow.State, error) {
		s.CompetitorData = map[string]any{"product_name": "Radiance Boost"}
		s.GeneratedQuestions = questions[:2]
		return s, nil
	}
	registry := contentflow.NewRegistry(map[contentflow.Agent]contentflow.Worker{
		contentflow.AgentIngestor:   agents.NewIngestor(nil),
		contentflow.AgentResearcher: contentflow.WorkerFunc(short),
		contentflow.AgentDrafter:    agents.NewDrafter(nil),
		contentflow.AgentReviewer:   contentflow.NewReviewer(),
	})
	orch := contentflow.NewOrchestrator(contentflow.NewSupervisor(), registry)
	ctx := contentflow.NewContext(context.Background())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = orch.Run(ctx, contentflow.NewStateFromProduct(glowSerum()))
	}
}
