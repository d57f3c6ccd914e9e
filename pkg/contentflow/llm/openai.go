package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	cferrors "github.com/randalmurphal/contentflow/pkg/contentflow/errors"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates text with the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI client.
// An empty model selects DefaultOpenAIModel.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{client: &client, model: model}
}

// Model returns the configured model name.
func (o *OpenAI) Model() string {
	return o.model
}

// Generate implements Client.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       o.model,
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Format == FormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: %w", cferrors.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func wrapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &cferrors.HTTPError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Provider:   "openai",
			Err:        err,
		}
	}
	return fmt.Errorf("openai: %w", err)
}
