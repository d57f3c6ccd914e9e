package contentflow

import (
	"fmt"
	"maps"
	"slices"
)

// Page is a generated output document. A nil Page means "not yet produced".
type Page = map[string]any

// ErrorKind classifies an entry in State.Errors.
type ErrorKind int

const (
	// KindFatal is a hard failure. A trailing fatal entry stops the run.
	KindFatal ErrorKind = iota

	// KindReviewFeedback is a soft signal from the Reviewer that authorizes
	// another drafting pass. It never trips the circuit breaker.
	KindReviewFeedback
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindReviewFeedback:
		return "review_feedback"
	default:
		return "unknown"
	}
}

// FeedbackPrefix is prepended to review feedback when rendered as text.
const FeedbackPrefix = "ReviewFeedback: "

// ErrorEntry is one record in the append-only error log.
type ErrorEntry struct {
	Kind    ErrorKind `json:"kind"`
	Agent   Agent     `json:"agent,omitempty"`
	Message string    `json:"message"`
}

// String renders the entry the way it is surfaced to users.
func (e ErrorEntry) String() string {
	if e.Kind == KindReviewFeedback {
		return FeedbackPrefix + e.Message
	}
	return e.Message
}

// IsFeedback reports whether the entry is review feedback.
func (e ErrorEntry) IsFeedback() bool {
	return e.Kind == KindReviewFeedback
}

// Output page names, as used in the journal and artifact file names.
const (
	PageProduct    = "product_page"
	PageFAQ        = "faq_page"
	PageComparison = "comparison_page"
)

// PageNames returns the output page names in drafting order.
func PageNames() []string {
	return []string{PageProduct, PageFAQ, PageComparison}
}

// State is the record threaded through every step of a run.
//
// State is passed by value. The Orchestrator hands each worker its own deep
// copy (see Clone), so a worker may modify and return its argument freely.
type State struct {
	// Inputs. ProductInput is a caller-supplied record awaiting
	// validation; ProductData is only ever set to a validated record.
	RawInput     string         `json:"raw_input,omitempty"`
	ProductInput map[string]any `json:"product_input,omitempty"`
	ProductData  map[string]any `json:"product_data,omitempty"`

	// Research
	CompetitorData     map[string]any `json:"competitor_data,omitempty"`
	GeneratedQuestions []string       `json:"generated_questions,omitempty"`

	// Outputs
	ProductPage    Page `json:"product_page,omitempty"`
	FAQPage        Page `json:"faq_page,omitempty"`
	ComparisonPage Page `json:"comparison_page,omitempty"`

	// Control flow
	LastAgent  Agent `json:"last_agent,omitempty"`
	NextAgent  Agent `json:"next_agent,omitempty"`
	IsComplete bool  `json:"is_complete"`

	Errors []ErrorEntry `json:"errors,omitempty"`
}

// NewState creates a state for a raw text request.
func NewState(raw string) State {
	return State{RawInput: raw}
}

// NewStateFromProduct creates a state from a pre-supplied product record.
// The record is copied and held as ProductInput until the Ingestor
// validates it.
func NewStateFromProduct(data map[string]any) State {
	return State{ProductInput: cloneMap(data)}
}

// AddError appends a fatal entry.
func (s *State) AddError(msg string) {
	s.Errors = append(s.Errors, ErrorEntry{Kind: KindFatal, Message: msg})
}

// AddErrorf appends a formatted fatal entry.
func (s *State) AddErrorf(format string, args ...any) {
	s.AddError(fmt.Sprintf(format, args...))
}

// AddAgentError appends a fatal entry attributed to an agent.
func (s *State) AddAgentError(agent Agent, msg string) {
	s.Errors = append(s.Errors, ErrorEntry{Kind: KindFatal, Agent: agent, Message: msg})
}

// AddFeedback appends a review feedback entry.
func (s *State) AddFeedback(agent Agent, msg string) {
	s.Errors = append(s.Errors, ErrorEntry{Kind: KindReviewFeedback, Agent: agent, Message: msg})
}

// LastError returns the most recent entry, if any.
func (s State) LastError() (ErrorEntry, bool) {
	if len(s.Errors) == 0 {
		return ErrorEntry{}, false
	}
	return s.Errors[len(s.Errors)-1], true
}

// HasFatalError reports whether the most recent entry is fatal.
// This is the circuit breaker condition: earlier fatal entries followed by
// feedback do not count, mirroring the "most recent entry" rule.
func (s State) HasFatalError() bool {
	last, ok := s.LastError()
	return ok && last.Kind == KindFatal
}

// FatalErrors returns every fatal entry in order.
func (s State) FatalErrors() []ErrorEntry {
	var out []ErrorEntry
	for _, e := range s.Errors {
		if e.Kind == KindFatal {
			out = append(out, e)
		}
	}
	return out
}

// LatestFeedback returns the message of the most recent feedback entry.
func (s State) LatestFeedback() (string, bool) {
	for i := len(s.Errors) - 1; i >= 0; i-- {
		if s.Errors[i].Kind == KindReviewFeedback {
			return s.Errors[i].Message, true
		}
	}
	return "", false
}

// ErrorStrings renders every entry as text.
func (s State) ErrorStrings() []string {
	out := make([]string, len(s.Errors))
	for i, e := range s.Errors {
		out[i] = e.String()
	}
	return out
}

// HasProductData reports whether a validated product record is present.
func (s State) HasProductData() bool {
	return len(s.ProductData) > 0
}

// HasProductInput reports whether an unvalidated record is waiting.
func (s State) HasProductInput() bool {
	return len(s.ProductInput) > 0
}

// ResearchComplete reports whether competitor data and questions exist.
func (s State) ResearchComplete() bool {
	return s.CompetitorData != nil && len(s.GeneratedQuestions) > 0
}

// PagesComplete reports whether all three output pages are present.
func (s State) PagesComplete() bool {
	return s.ProductPage != nil && s.FAQPage != nil && s.ComparisonPage != nil
}

// Page returns the page with the given name, or nil if the name is unknown
// or the page is absent.
func (s State) Page(name string) Page {
	switch name {
	case PageProduct:
		return s.ProductPage
	case PageFAQ:
		return s.FAQPage
	case PageComparison:
		return s.ComparisonPage
	default:
		return nil
	}
}

// PresentPages returns the names of the pages that are present.
func (s State) PresentPages() []string {
	var out []string
	for _, name := range PageNames() {
		if s.Page(name) != nil {
			out = append(out, name)
		}
	}
	return out
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.ProductInput = cloneMap(s.ProductInput)
	c.ProductData = cloneMap(s.ProductData)
	c.CompetitorData = cloneMap(s.CompetitorData)
	c.GeneratedQuestions = slices.Clone(s.GeneratedQuestions)
	c.ProductPage = cloneMap(s.ProductPage)
	c.FAQPage = cloneMap(s.FAQPage)
	c.ComparisonPage = cloneMap(s.ComparisonPage)
	c.Errors = slices.Clone(s.Errors)
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = cloneMap(item)
		}
		return out
	case map[string]string:
		return maps.Clone(val)
	default:
		return v
	}
}
