package agents

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
	"github.com/randalmurphal/contentflow/pkg/contentflow/prompt"
)

// MaxFAQQuestions caps the questions placed on the FAQ page.
const MaxFAQQuestions = 5

const defaultFAQQuestion = "How do I use this?"

// Drafter assembles whichever output pages are missing.
//
// The comparison page is pure assembly. The product description and the
// optional FAQ answers come from the model; if a call fails the page is
// still drafted without that content and the failure is logged.
type Drafter struct {
	client llm.Client
	opts   options
}

// NewDrafter creates a Drafter. A nil client drafts every page without
// model calls.
func NewDrafter(client llm.Client, opts ...Option) *Drafter {
	return &Drafter{client: client, opts: newOptions(opts)}
}

// Process implements contentflow.Worker.
func (d *Drafter) Process(ctx contentflow.Context, state contentflow.State) (contentflow.State, error) {
	feedback, _ := state.LatestFeedback()
	var drafted []string

	if len(state.ProductPage) == 0 {
		state.ProductPage = d.productPage(ctx, state.ProductData, feedback)
		drafted = append(drafted, contentflow.PageProduct)
	}
	if len(state.FAQPage) == 0 {
		state.FAQPage = d.faqPage(ctx, state.ProductData, state.GeneratedQuestions)
		drafted = append(drafted, contentflow.PageFAQ)
	}
	if len(state.ComparisonPage) == 0 {
		state.ComparisonPage = ComparisonPage(state.ProductData, state.CompetitorData)
		drafted = append(drafted, contentflow.PageComparison)
	}

	ctx.Logger().Info("pages drafted",
		slog.Any("pages", drafted),
		slog.Bool("revision", feedback != ""),
	)
	return state, nil
}

func (d *Drafter) productPage(ctx contentflow.Context, data map[string]any, feedback string) contentflow.Page {
	description := d.description(ctx, data, feedback)
	return ProductPage(data, description)
}

func (d *Drafter) description(ctx contentflow.Context, data map[string]any, feedback string) string {
	if d.client == nil {
		return fallbackDescription(data)
	}

	var note string
	if feedback != "" {
		note = d.opts.prompts.RenderOr(prompt.Feedback, "Reviewer feedback: "+feedback, map[string]any{
			"feedback": feedback,
		})
	}
	text := d.opts.prompts.RenderOr(prompt.Description,
		fmt.Sprintf("Write a description for %v. Return JSON: {\"description\": \"...\"}", data["product_name"]),
		map[string]any{
			"product_name": data["product_name"],
			"data_str":     dataString(data),
			"feedback":     note,
		})

	obj, err := llm.GenerateObject(ctx, d.client, d.opts.jsonRequest(text, d.opts.temperature))
	if err != nil {
		ctx.Logger().Warn("description generation failed", slog.String("error", err.Error()))
		return fallbackDescription(data)
	}
	desc, _ := obj["description"].(string)
	if strings.TrimSpace(desc) == "" {
		return fallbackDescription(data)
	}
	return desc
}

func (d *Drafter) faqPage(ctx contentflow.Context, data map[string]any, questions []string) contentflow.Page {
	subset := questions
	if len(subset) > MaxFAQQuestions {
		subset = subset[:MaxFAQQuestions]
	}
	if len(subset) == 0 {
		subset = []string{defaultFAQQuestion}
	}

	page := FAQPage(subset)
	if !d.opts.answerFAQ || d.client == nil {
		return page
	}

	text := d.opts.prompts.RenderOr(prompt.FAQ, "Answer these questions as JSON.", map[string]any{
		"data_str":  dataString(data),
		"questions": dataString(subset),
	})
	obj, err := llm.GenerateObject(ctx, d.client, d.opts.jsonRequest(text, d.opts.temperature))
	if err != nil {
		ctx.Logger().Warn("faq answering failed", slog.String("error", err.Error()))
		return page
	}
	if faqs := answeredFAQs(obj["faqs"]); len(faqs) > 0 {
		page["faqs"] = faqs
	}
	return page
}

// answeredFAQs keeps entries that carry both a question and an answer.
func answeredFAQs(v any) []any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []any
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q, _ := m["question"].(string)
		a, _ := m["answer"].(string)
		if q == "" || a == "" {
			continue
		}
		out = append(out, map[string]any{"question": q, "answer": a})
	}
	return out
}

func fallbackDescription(data map[string]any) string {
	name, _ := data["product_name"].(string)
	benefits := stringItems(data["benefits"])
	if len(benefits) == 0 {
		return name
	}
	return fmt.Sprintf("%s: %s.", name, strings.Join(benefits, ", "))
}
