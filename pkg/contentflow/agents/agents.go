// Package agents implements the pipeline workers: the Ingestor, the
// Researcher, and the Drafter. The Reviewer lives in the core package.
//
// Workers report failures by appending fatal entries to the state and
// returning a nil error; the Supervisor stops the run on its next decision.
package agents

import (
	"encoding/json"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
	"github.com/randalmurphal/contentflow/pkg/contentflow/prompt"
)

// DefaultTemperature is used for creative calls when none is configured.
// Extraction always runs at temperature 0.
const DefaultTemperature = 0.7

// options holds settings shared by all workers.
type options struct {
	prompts     *prompt.Set
	temperature float64
	answerFAQ   bool
}

// Option configures a worker.
type Option func(*options)

// WithPrompts sets the prompt templates. Default: prompt.Default().
func WithPrompts(s *prompt.Set) Option {
	return func(o *options) {
		if s != nil {
			o.prompts = s
		}
	}
}

// WithTemperature sets the sampling temperature for creative calls.
func WithTemperature(t float64) Option {
	return func(o *options) {
		if t >= 0 {
			o.temperature = t
		}
	}
}

// WithFAQAnswers makes the Drafter ask the model to answer FAQ questions.
// Only the Drafter reads this option.
func WithFAQAnswers(enabled bool) Option {
	return func(o *options) {
		o.answerFAQ = enabled
	}
}

func newOptions(opts []Option) options {
	o := options{
		prompts:     prompt.Default(),
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// jsonRequest builds a JSON-mode request with the shared system prompt.
func (o options) jsonRequest(user string, temperature float64) llm.Request {
	system := o.prompts.RenderOr(prompt.JSONSystem, "Return ONLY valid JSON.", nil)
	return llm.Request{
		Messages:    []llm.Message{llm.System(system), llm.User(user)},
		Temperature: temperature,
		Format:      llm.FormatJSON,
	}
}

// dataString renders a record for prompt substitution.
func dataString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// stringItems extracts the string items of a JSON array value.
func stringItems(v any) []string {
	var out []string
	switch items := v.(type) {
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range items {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// compile-time interface checks
var (
	_ contentflow.Worker = (*Ingestor)(nil)
	_ contentflow.Worker = (*Researcher)(nil)
	_ contentflow.Worker = (*Drafter)(nil)
)
