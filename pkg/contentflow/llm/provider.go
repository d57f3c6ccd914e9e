package llm

import (
	"context"
	"fmt"
)

// Provider names a backend.
type Provider string

// Supported providers.
const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderMock      Provider = "mock"
)

// Providers returns every supported provider name.
func Providers() []Provider {
	return []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderMock}
}

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderMock:
		return true
	default:
		return false
	}
}

// New creates a client for provider. The mock provider returns an empty
// JSON object for every call.
func New(ctx context.Context, provider Provider, apiKey, model string) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGemini(ctx, apiKey, model)
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropic(apiKey, model), nil
	case ProviderMock:
		return NewMockClient("{}"), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
