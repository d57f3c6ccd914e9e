package agents

import (
	"errors"
	"log/slog"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
	"github.com/randalmurphal/contentflow/pkg/contentflow/product"
	"github.com/randalmurphal/contentflow/pkg/contentflow/prompt"
)

// Ingestion error messages.
const (
	msgEmptyExtraction = "DataIngestion: Extraction returned empty data."
	msgExtractionCrash = "DataIngestion: JSON Extraction Crashed. Error: "
	msgSchemaFailed    = "DataIngestion: Schema Validation Failed. "
	msgNoInput         = "DataIngestion: No valid input provided."
)

const fallbackExtractionPrompt = "You are a data extractor. Return JSON."

var errNoClient = errors.New("no LLM client configured")

// Ingestor produces a validated product record.
//
// A caller-supplied record (ProductInput) is validated directly. Otherwise
// the raw text is sent to the model for extraction at temperature 0 and the
// result is validated. Only a record that passes validation, with defaults
// filled in, is stored as ProductData.
type Ingestor struct {
	client llm.Client
	opts   options
}

// NewIngestor creates an Ingestor. The client is only used for raw text
// input and may be nil when every run starts from structured data.
func NewIngestor(client llm.Client, opts ...Option) *Ingestor {
	return &Ingestor{client: client, opts: newOptions(opts)}
}

// Process implements contentflow.Worker.
func (g *Ingestor) Process(ctx contentflow.Context, state contentflow.State) (contentflow.State, error) {
	logger := ctx.Logger()

	if state.HasProductInput() {
		return g.validate(logger, state, state.ProductInput), nil
	}

	if state.RawInput != "" {
		extracted, err := g.extract(ctx, state.RawInput)
		if err != nil {
			logger.Warn("extraction failed", slog.String("error", err.Error()))
			state.AddAgentError(contentflow.AgentIngestor, msgExtractionCrash+err.Error())
			return state, nil
		}
		if len(extracted) == 0 {
			state.AddAgentError(contentflow.AgentIngestor, msgEmptyExtraction)
			return state, nil
		}
		return g.validate(logger, state, extracted), nil
	}

	state.AddAgentError(contentflow.AgentIngestor, msgNoInput)
	return state, nil
}

func (g *Ingestor) extract(ctx contentflow.Context, raw string) (map[string]any, error) {
	if g.client == nil {
		return nil, errNoClient
	}

	system := g.opts.prompts.RenderOr(prompt.Extraction, fallbackExtractionPrompt, nil)
	return llm.GenerateObject(ctx, g.client, llm.Request{
		Messages:    []llm.Message{llm.System(system), llm.User(raw)},
		Temperature: 0,
		Format:      llm.FormatJSON,
	})
}

func (g *Ingestor) validate(logger *slog.Logger, state contentflow.State, data map[string]any) contentflow.State {
	rec, err := product.Validate(data)
	if err != nil {
		logger.Warn("product validation failed", slog.String("error", err.Error()))
		state.AddAgentError(contentflow.AgentIngestor, msgSchemaFailed+err.Error())
		return state
	}

	state.ProductData = rec.Map()
	logger.Info("product ingested", slog.String("product", rec.ProductName))
	return state
}
