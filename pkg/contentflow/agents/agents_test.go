package agents_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/agents"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
	"github.com/randalmurphal/contentflow/pkg/contentflow/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() contentflow.Context {
	return contentflow.NewContext(context.Background(),
		contentflow.WithContextLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		contentflow.WithContextRunID("test-run"))
}

func glowSerum() map[string]any {
	return map[string]any{
		"product_name":    "Glow Serum",
		"price":           "$50",
		"concentration":   "10% Vitamin C",
		"skin_type":       "Oily",
		"key_ingredients": []any{"Vitamin C", "Hyaluronic Acid"},
		"benefits":        []any{"Brightening"},
		"how_to_use":      "Apply 2-3 drops",
		"side_effects":    "Mild tingling",
	}
}

// ingested returns a state whose product record has passed validation.
func ingested() contentflow.State {
	return contentflow.State{ProductData: glowSerum()}
}

// routedClient answers by matching a substring of the user prompt.
func routedClient(routes map[string]string) *llm.MockClient {
	return llm.NewMockClient("").WithHandler(func(req llm.Request) (string, error) {
		user := req.Messages[len(req.Messages)-1].Content
		for key, resp := range routes {
			if strings.Contains(user, key) {
				return resp, nil
			}
		}
		return "{}", nil
	})
}

func lastError(t *testing.T, s contentflow.State) contentflow.ErrorEntry {
	t.Helper()
	e, ok := s.LastError()
	require.True(t, ok, "expected an error entry")
	return e
}

// --- Ingestor ---

func TestIngestor_StructuredInput(t *testing.T) {
	ing := agents.NewIngestor(nil)
	in := contentflow.NewStateFromProduct(map[string]any{"product_name": "Glow Serum", "price": "$50"})

	out, err := ing.Process(testCtx(), in)

	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "Glow Serum", out.ProductData["product_name"])
	assert.Equal(t, "Standard", out.ProductData["concentration"])
	assert.Equal(t, []any{}, out.ProductData["benefits"])
}

func TestIngestor_ValidationFailure(t *testing.T) {
	data := glowSerum()
	delete(data, "price")

	out, err := agents.NewIngestor(nil).Process(testCtx(), contentflow.NewStateFromProduct(data))

	require.NoError(t, err)
	e := lastError(t, out)
	assert.Equal(t, contentflow.KindFatal, e.Kind)
	assert.True(t, strings.HasPrefix(e.Message, "DataIngestion: Schema Validation Failed. "))
	assert.Contains(t, e.Message, "price")
	assert.Nil(t, out.ProductData, "rejected records are never promoted")
}

func TestIngestor_RawInput(t *testing.T) {
	client := llm.NewMockClient("```json\n{\"product_name\":\"Glow Serum\",\"price\":\"$50\"}\n```")
	ing := agents.NewIngestor(client)

	out, err := ing.Process(testCtx(), contentflow.NewState("Glow Serum costs $50"))

	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "$50", out.ProductData["price"])

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0.0, calls[0].Temperature)
	assert.Equal(t, llm.FormatJSON, calls[0].Format)
	assert.Equal(t, llm.RoleSystem, calls[0].Messages[0].Role)
	assert.Equal(t, "Glow Serum costs $50", calls[0].Messages[1].Content)
}

func TestIngestor_ExtractionErrors(t *testing.T) {
	tests := []struct {
		name   string
		client llm.Client
		prefix string
	}{
		{"llm failure", llm.NewMockClient("").WithError(errors.New("quota exceeded")), "DataIngestion: JSON Extraction Crashed. Error: "},
		{"invalid json", llm.NewMockClient("not json"), "DataIngestion: JSON Extraction Crashed. Error: "},
		{"no client", nil, "DataIngestion: JSON Extraction Crashed. Error: "},
		{"empty object", llm.NewMockClient("{}"), "DataIngestion: Extraction returned empty data."},
		{"missing price", llm.NewMockClient(`{"product_name":"X"}`), "DataIngestion: Schema Validation Failed. "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := agents.NewIngestor(tt.client).Process(testCtx(), contentflow.NewState("some text"))

			require.NoError(t, err)
			require.Len(t, out.Errors, 1)
			assert.True(t, strings.HasPrefix(out.Errors[0].Message, tt.prefix), out.Errors[0].Message)
			assert.False(t, out.HasProductData())
		})
	}
}

func TestIngestor_NoInput(t *testing.T) {
	out, err := agents.NewIngestor(nil).Process(testCtx(), contentflow.State{})

	require.NoError(t, err)
	assert.Equal(t, "DataIngestion: No valid input provided.", lastError(t, out).Message)
}

// --- Researcher ---

func researchClient() *llm.MockClient {
	return routedClient(map[string]string{
		"competitor": `{"product_name":"Radiance Boost","price":"$45","key_ingredients":["Niacinamide"]}`,
		"questions":  `{"questions":["Q1","Q2","Q3","Q4","Q5","Q6"]}`,
	})
}

func TestResearcher_ProducesBoth(t *testing.T) {
	client := researchClient()
	in := ingested()

	out, err := agents.NewResearcher(client).Process(testCtx(), in)

	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "Radiance Boost", out.CompetitorData["product_name"])
	assert.Len(t, out.GeneratedQuestions, 6)
	assert.True(t, out.ResearchComplete())
	assert.Equal(t, 2, client.CallCount())
}

func TestResearcher_KeepsExisting(t *testing.T) {
	client := researchClient()
	in := ingested()
	in.CompetitorData = map[string]any{"product_name": "Existing"}

	out, err := agents.NewResearcher(client).Process(testCtx(), in)

	require.NoError(t, err)
	assert.Equal(t, "Existing", out.CompetitorData["product_name"])
	assert.Equal(t, 1, client.CallCount())
}

func TestResearcher_Failures(t *testing.T) {
	t.Run("llm error", func(t *testing.T) {
		client := llm.NewMockClient("").WithError(errors.New("boom"))
		out, err := agents.NewResearcher(client).Process(testCtx(), ingested())

		require.NoError(t, err)
		e := lastError(t, out)
		assert.Equal(t, contentflow.KindFatal, e.Kind)
		assert.Contains(t, e.Message, "competitor generation failed")
		assert.Nil(t, out.CompetitorData)
	})

	t.Run("no questions", func(t *testing.T) {
		client := routedClient(map[string]string{
			"competitor": `{"product_name":"Rival"}`,
			"questions":  `{"questions":[]}`,
		})
		out, err := agents.NewResearcher(client).Process(testCtx(), ingested())

		require.NoError(t, err)
		assert.Contains(t, lastError(t, out).Message, "question generation failed")
		assert.Empty(t, out.GeneratedQuestions)
		assert.NotNil(t, out.CompetitorData)
	})

	t.Run("no client", func(t *testing.T) {
		out, err := agents.NewResearcher(nil).Process(testCtx(), ingested())

		require.NoError(t, err)
		assert.True(t, out.HasFatalError())
	})
}

// --- Drafter ---

func researchedState() contentflow.State {
	s := ingested()
	s.CompetitorData = map[string]any{"product_name": "Radiance Boost", "price": "$45"}
	s.GeneratedQuestions = []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7"}
	return s
}

func TestDrafter_AllPages(t *testing.T) {
	client := llm.NewMockClient(`{"description":"A bright serum."}`)

	out, err := agents.NewDrafter(client).Process(testCtx(), researchedState())

	require.NoError(t, err)
	require.True(t, out.PagesComplete())

	assert.Equal(t, "product_listing", out.ProductPage["page_type"])
	meta := out.ProductPage["meta"].(map[string]any)
	assert.Equal(t, "$50", meta["price"])
	content := out.ProductPage["content"].(map[string]any)
	assert.Equal(t, "A bright serum.", content["description"])
	assert.Equal(t, "Discover Glow Serum", content["headline"])

	assert.Equal(t, "faq", out.FAQPage["page_type"])
	assert.Len(t, out.FAQPage["questions"], agents.MaxFAQQuestions)

	assert.Equal(t, "Glow Serum vs Radiance Boost", out.ComparisonPage["title"])
	assert.Len(t, out.ComparisonPage["table"], 3)
}

func TestDrafter_OnlyMissingPages(t *testing.T) {
	in := researchedState()
	in.ComparisonPage = contentflow.Page{"page_type": "comparison", "title": "kept"}

	out, err := agents.NewDrafter(nil).Process(testCtx(), in)

	require.NoError(t, err)
	assert.Equal(t, "kept", out.ComparisonPage["title"])
	assert.NotNil(t, out.ProductPage)
	assert.NotNil(t, out.FAQPage)
}

func TestDrafter_UsesFeedback(t *testing.T) {
	client := llm.NewMockClient(`{"description":"Revised."}`)
	in := researchedState()
	in.AddFeedback(contentflow.AgentReviewer, "FAQ page has too few questions.")

	_, err := agents.NewDrafter(client).Process(testCtx(), in)

	require.NoError(t, err)
	require.Equal(t, 1, client.CallCount())
	user := client.Calls()[0].Messages[1].Content
	assert.Contains(t, user, "FAQ page has too few questions.")
}

func TestDrafter_DescriptionFailureFallsBack(t *testing.T) {
	client := llm.NewMockClient("").WithError(errors.New("down"))

	out, err := agents.NewDrafter(client).Process(testCtx(), researchedState())

	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	content := out.ProductPage["content"].(map[string]any)
	assert.Equal(t, "Glow Serum: Brightening.", content["description"])
}

func TestDrafter_FAQAnswers(t *testing.T) {
	client := routedClient(map[string]string{
		"Answer strictly": `{"faqs":[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"},{"question":"Q3"}]}`,
		"description":     `{"description":"d"}`,
	})

	out, err := agents.NewDrafter(client, agents.WithFAQAnswers(true)).Process(testCtx(), researchedState())

	require.NoError(t, err)
	faqs := out.FAQPage["faqs"].([]any)
	assert.Len(t, faqs, 2)
	assert.Equal(t, map[string]any{"question": "Q1", "answer": "A1"}, faqs[0])
}

func TestDrafter_NoQuestionsUsesDefault(t *testing.T) {
	in := researchedState()
	in.GeneratedQuestions = nil

	out, err := agents.NewDrafter(nil).Process(testCtx(), in)

	require.NoError(t, err)
	assert.Equal(t, []any{"How do I use this?"}, out.FAQPage["questions"])
}

func TestDrafter_CustomPrompts(t *testing.T) {
	set, err := prompt.Parse([]byte(`
content_factory:
  description_prompt: "Describe ${product_name} briefly."
`))
	require.NoError(t, err)
	client := llm.NewMockClient(`{"description":"x"}`)

	_, err = agents.NewDrafter(client, agents.WithPrompts(prompt.Default().Merge(set))).Process(testCtx(), researchedState())

	require.NoError(t, err)
	assert.Equal(t, "Describe Glow Serum briefly.", client.Calls()[0].Messages[1].Content)
}

func TestPages(t *testing.T) {
	t.Run("comparison with missing competitor fields", func(t *testing.T) {
		page := agents.ComparisonPage(glowSerum(), map[string]any{"product_name": "Rival"})
		table := page["table"].([]any)
		price := table[0].(map[string]any)
		assert.Equal(t, "Price", price["feature"])
		assert.Equal(t, "$50", price["us"])
		assert.Nil(t, price["them"])
		ingredients := table[1].(map[string]any)
		assert.Equal(t, []any{}, ingredients["them"])
	})

	t.Run("faq", func(t *testing.T) {
		page := agents.FAQPage([]string{"a", "b"})
		assert.Equal(t, []any{"a", "b"}, page["questions"])
	})
}
