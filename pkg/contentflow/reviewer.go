package contentflow

import (
	"reflect"
	"strings"

	"github.com/randalmurphal/contentflow/pkg/contentflow/observability"
)

// MinFAQQuestions is the fewest question entries an FAQ page may carry.
const MinFAQQuestions = 3

// Review failure messages.
const (
	FailProductContent = "Product page is missing content."
	FailFAQQuestions   = "FAQ page has too few questions."
	FailComparison     = "Comparison page is missing."
)

// Reviewer is the quality gate between drafting and completion.
//
// On any failure it appends one feedback entry and clears the product and
// FAQ pages, which sends the Supervisor back to the drafter. It never sets
// IsComplete.
type Reviewer struct {
	metrics observability.MetricsRecorder
}

// ReviewerOption configures a Reviewer.
type ReviewerOption func(*Reviewer)

// WithReviewMetrics records review outcomes to m.
func WithReviewMetrics(m observability.MetricsRecorder) ReviewerOption {
	return func(r *Reviewer) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewReviewer creates a Reviewer.
func NewReviewer(opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{metrics: observability.NoopMetrics{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check returns the failed checks for state, or nil if the drafts pass.
func (r *Reviewer) Check(state State) []string {
	var failures []string

	if len(state.ProductPage) == 0 || isEmpty(state.ProductPage["content"]) {
		failures = append(failures, FailProductContent)
	}
	if len(state.FAQPage) == 0 || countQuestions(state.FAQPage) < MinFAQQuestions {
		failures = append(failures, FailFAQQuestions)
	}
	if len(state.ComparisonPage) == 0 {
		failures = append(failures, FailComparison)
	}

	return failures
}

// Process implements Worker.
func (r *Reviewer) Process(ctx Context, state State) (State, error) {
	failures := r.Check(state)
	passed := len(failures) == 0

	observability.LogReview(ctx.Logger(), passed, failures)
	r.metrics.RecordReview(ctx, passed)

	if passed {
		return state, nil
	}

	state.AddFeedback(AgentReviewer, strings.Join(failures, "; "))
	state.ProductPage = nil
	state.FAQPage = nil
	return state, nil
}

// countQuestions counts question entries on an FAQ page. The answered form
// stores them under "faqs"; the plain form under "questions".
func countQuestions(page Page) int {
	if n := length(page["faqs"]); n > 0 {
		return n
	}
	return length(page["questions"])
}

// length counts the elements of any slice type.
func length(v any) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return 0
	}
	return rv.Len()
}

// isEmpty reports whether v is nil or an empty string, slice, or map,
// whatever its element type.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
