// Package prompt holds the prompt templates used by the pipeline workers.
//
// Defaults are embedded in the binary. A YAML file with the same two-level
// layout (section, then key) overrides individual prompts.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Prompt names, as "section.key".
const (
	Extraction  = "data_ingestion.extraction_prompt"
	JSONSystem  = "content_factory.json_system_prompt"
	Competitor  = "content_factory.competitor_prompt"
	Questions   = "content_factory.questions_prompt"
	Description = "content_factory.description_prompt"
	Feedback    = "content_factory.feedback_prompt"
	FAQ         = "content_factory.faq_prompt"
)

// Set is a collection of named prompt templates.
// A Set is read-only after loading and safe for concurrent use.
type Set struct {
	prompts map[string]string
}

// Default returns the embedded prompt set.
func Default() *Set {
	s, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("prompt: embedded defaults: %v", err))
	}
	return s
}

// Parse reads a YAML prompt document.
func Parse(data []byte) (*Set, error) {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}

	s := &Set{prompts: make(map[string]string)}
	for section, entries := range doc {
		for key, text := range entries {
			s.prompts[section+"."+key] = strings.TrimSpace(text)
		}
	}
	return s, nil
}

// Load returns the default set overlaid with the prompts in path.
// A missing file is an error; an empty path returns the defaults.
func Load(path string) (*Set, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base.Merge(override), nil
}

// Merge returns a new set with other's prompts replacing s's.
func (s *Set) Merge(other *Set) *Set {
	out := &Set{prompts: make(map[string]string, len(s.prompts))}
	for k, v := range s.prompts {
		out.prompts[k] = v
	}
	if other != nil {
		for k, v := range other.prompts {
			out.prompts[k] = v
		}
	}
	return out
}

// Get returns the raw template for name.
func (s *Set) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	t, ok := s.prompts[name]
	return t, ok
}

// Render expands the template for name with vars. Unknown variables are
// left in place. Returns an error if name is not in the set.
func (s *Set) Render(name string, vars map[string]any) (string, error) {
	t, ok := s.Get(name)
	if !ok {
		return "", fmt.Errorf("prompt %q not found", name)
	}
	return Expand(t, vars, MissingKeep)
}

// RenderOr renders name, or fallback if name is missing or fails.
func (s *Set) RenderOr(name, fallback string, vars map[string]any) string {
	out, err := s.Render(name, vars)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}

// Names returns the prompt names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.prompts))
	for k := range s.prompts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
