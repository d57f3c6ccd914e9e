package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cferrors "github.com/randalmurphal/contentflow/pkg/contentflow/errors"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates text with the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client for the Gemini API backend.
// An empty model selects DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Generate implements Client.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	system, messages := splitSystem(req.Messages)

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	temp := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if req.Format == FormatJSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", wrapGeminiError(err)
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", cferrors.ErrEmptyResponse)
	}
	return b.String(), nil
}

func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &cferrors.HTTPError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Provider:   "gemini",
			Err:        err,
		}
	}
	return fmt.Errorf("gemini: %w", err)
}
