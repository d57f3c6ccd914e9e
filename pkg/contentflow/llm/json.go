package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	cferrors "github.com/randalmurphal/contentflow/pkg/contentflow/errors"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// SanitizeJSON strips a Markdown code fence around model output.
// Text without a fence is returned trimmed. Empty input yields "{}".
func SanitizeJSON(s string) string {
	if strings.TrimSpace(s) == "" {
		return "{}"
	}
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

// DecodeObject sanitizes model output and parses it as a JSON object.
// Returns *errors.JSONParseError if the text is not a JSON object.
func DecodeObject(s string) (map[string]any, error) {
	cleaned := SanitizeJSON(s)

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, &cferrors.JSONParseError{Input: cleaned, Message: err.Error()}
	}
	if out == nil {
		return nil, &cferrors.JSONParseError{Input: cleaned, Message: "expected a JSON object"}
	}
	return out, nil
}

// GenerateObject calls client and decodes the response as a JSON object.
// The request format is forced to FormatJSON.
func GenerateObject(ctx context.Context, client Client, req Request) (map[string]any, error) {
	req.Format = FormatJSON
	text, err := client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return DecodeObject(text)
}
