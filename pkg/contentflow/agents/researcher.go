package agents

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
	"github.com/randalmurphal/contentflow/pkg/contentflow/prompt"
)

// Researcher invents a fictional competitor and a list of candidate user
// questions. Each is produced once; fields already present are kept.
type Researcher struct {
	client llm.Client
	opts   options
}

// NewResearcher creates a Researcher.
func NewResearcher(client llm.Client, opts ...Option) *Researcher {
	return &Researcher{client: client, opts: newOptions(opts)}
}

// Process implements contentflow.Worker.
func (r *Researcher) Process(ctx contentflow.Context, state contentflow.State) (contentflow.State, error) {
	if r.client == nil {
		state.AddAgentError(contentflow.AgentResearcher, "Research: "+errNoClient.Error())
		return state, nil
	}

	if state.CompetitorData == nil {
		competitor, err := r.competitor(ctx, state.ProductData)
		if err != nil {
			ctx.Logger().Warn("competitor generation failed", slog.String("error", err.Error()))
			state.AddAgentError(contentflow.AgentResearcher, "Research: competitor generation failed. Error: "+err.Error())
			return state, nil
		}
		state.CompetitorData = competitor
	}

	if len(state.GeneratedQuestions) == 0 {
		questions, err := r.questions(ctx, state.ProductData)
		if err != nil {
			ctx.Logger().Warn("question generation failed", slog.String("error", err.Error()))
			state.AddAgentError(contentflow.AgentResearcher, "Research: question generation failed. Error: "+err.Error())
			return state, nil
		}
		state.GeneratedQuestions = questions
	}

	ctx.Logger().Info("research complete",
		slog.Any("competitor", state.CompetitorData["product_name"]),
		slog.Int("questions", len(state.GeneratedQuestions)),
	)
	return state, nil
}

func (r *Researcher) competitor(ctx contentflow.Context, data map[string]any) (map[string]any, error) {
	text := r.opts.prompts.RenderOr(prompt.Competitor, "Generate competitor JSON", map[string]any{
		"product_name": data["product_name"],
		"price":        data["price"],
	})

	obj, err := llm.GenerateObject(ctx, r.client, r.opts.jsonRequest(text, r.opts.temperature))
	if err != nil {
		return nil, err
	}
	if len(obj) == 0 {
		return nil, fmt.Errorf("model returned an empty competitor")
	}
	return obj, nil
}

func (r *Researcher) questions(ctx contentflow.Context, data map[string]any) ([]string, error) {
	text := r.opts.prompts.RenderOr(prompt.Questions, "Generate questions JSON", map[string]any{
		"data_str": dataString(data),
	})

	obj, err := llm.GenerateObject(ctx, r.client, r.opts.jsonRequest(text, r.opts.temperature))
	if err != nil {
		return nil, err
	}

	questions := stringItems(obj["questions"])
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	return questions, nil
}
