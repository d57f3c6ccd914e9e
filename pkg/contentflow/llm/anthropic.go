package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	cferrors "github.com/randalmurphal/contentflow/pkg/contentflow/errors"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// defaultAnthropicMaxTokens is required by the Messages API.
const defaultAnthropicMaxTokens = 4096

// jsonInstruction is appended to the system prompt in JSON mode; the
// Messages API has no response format switch.
const jsonInstruction = "Respond with a single valid JSON object and nothing else."

// Anthropic generates text with the Anthropic Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic client.
// An empty model selects DefaultAnthropicModel.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{client: &client, model: model}
}

// Model returns the configured model name.
func (a *Anthropic) Model() string {
	return a.model
}

// Generate implements Client.
func (a *Anthropic) Generate(ctx context.Context, req Request) (string, error) {
	system, rest := splitSystem(req.Messages)
	if req.Format == FormatJSON {
		if system != "" {
			system += "\n\n"
		}
		system += jsonInstruction
	}

	messages := make([]anthropic.MessageParam, 0, len(rest))
	for _, m := range rest {
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	maxTokens := int64(defaultAnthropicMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapAnthropicError(err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", cferrors.ErrEmptyResponse)
	}
	return b.String(), nil
}

func wrapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &cferrors.HTTPError{
			StatusCode: apiErr.StatusCode,
			Message:    err.Error(),
			Provider:   "anthropic",
			Err:        err,
		}
	}
	return fmt.Errorf("anthropic: %w", err)
}
