// Package llm provides the language-model capability used by the pipeline
// workers.
//
// Client is the single seam between the workers and a provider. Gemini,
// OpenAI, and Anthropic implementations wrap the official SDKs; MockClient
// scripts responses for tests and offline runs.
package llm

import (
	"context"
	"strings"
)

// Client generates text from a conversation.
type Client interface {
	// Generate sends the request and returns the model's text output.
	// Provider failures are returned as *errors.HTTPError where a status
	// code is available, so they can be categorized for retry.
	Generate(ctx context.Context, req Request) (string, error)
}

// Format selects the response format.
type Format int

const (
	// FormatText requests free-form text.
	FormatText Format = iota

	// FormatJSON requests a single JSON object.
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request configures one generation call.
type Request struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Format      Format    `json:"format"`

	// MaxTokens caps the response length. Zero uses the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// System returns a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User returns a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// splitSystem separates system messages from the conversation.
// Multiple system messages are joined with blank lines.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
