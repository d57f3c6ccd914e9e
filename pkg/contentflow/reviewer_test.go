package contentflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewer_Check(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *State)
		want   []string
	}{
		{"passing drafts", func(s *State) {}, nil},
		{"answered faqs count", func(s *State) {
			s.FAQPage = Page{"faqs": []any{
				map[string]any{"question": "a"},
				map[string]any{"question": "b"},
				map[string]any{"question": "c"},
			}}
		}, nil},
		{"too few questions", func(s *State) {
			s.FAQPage = Page{"questions": []any{"a", "b"}}
		}, []string{FailFAQQuestions}},
		{"string question list", func(s *State) {
			s.FAQPage = Page{"questions": []string{"a", "b", "c"}}
		}, nil},
		{"empty product content", func(s *State) {
			s.ProductPage = Page{"content": ""}
		}, []string{FailProductContent}},
		{"product page without content", func(s *State) {
			s.ProductPage = Page{"meta": map[string]any{}}
		}, []string{FailProductContent}},
		{"empty typed content", func(s *State) {
			s.ProductPage = Page{"content": []string{}}
		}, []string{FailProductContent}},
		{"empty content sections", func(s *State) {
			s.ProductPage = Page{"content": []map[string]any{}}
		}, []string{FailProductContent}},
		{"empty string map content", func(s *State) {
			s.ProductPage = Page{"content": map[string]string{}}
		}, []string{FailProductContent}},
		{"typed content passes", func(s *State) {
			s.ProductPage = Page{"content": map[string]string{"description": "Brightens."}}
		}, nil},
		{"typed faq list", func(s *State) {
			s.FAQPage = Page{"faqs": []map[string]string{
				{"question": "a"}, {"question": "b"}, {"question": "c"},
			}}
		}, nil},
		{"empty comparison page", func(s *State) {
			s.ComparisonPage = Page{}
		}, []string{FailComparison}},
		{"everything wrong", func(s *State) {
			s.ProductPage = nil
			s.FAQPage = nil
			s.ComparisonPage = nil
		}, []string{FailProductContent, FailFAQQuestions, FailComparison}},
	}

	r := NewReviewer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fullState()
			tt.mutate(&s)
			assert.Equal(t, tt.want, r.Check(s))
		})
	}
}

func TestReviewer_ProcessPass(t *testing.T) {
	in := fullState()

	out, err := NewReviewer().Process(testCtx(), in)

	require.NoError(t, err)
	assert.Empty(t, out.Errors)
	assert.True(t, out.PagesComplete())
	assert.False(t, out.IsComplete, "the reviewer never sets completion")
}

func TestReviewer_ProcessReject(t *testing.T) {
	in := fullState()
	in.FAQPage = Page{"questions": []any{"a", "b"}}
	in.ProductPage = Page{"content": ""}

	out, err := NewReviewer().Process(testCtx(), in)

	require.NoError(t, err)
	require.Len(t, out.Errors, 1)
	e := out.Errors[0]
	assert.Equal(t, KindReviewFeedback, e.Kind)
	assert.Equal(t, AgentReviewer, e.Agent)
	assert.Equal(t, strings.Join([]string{FailProductContent, FailFAQQuestions}, "; "), e.Message)
	assert.True(t, strings.HasPrefix(e.String(), FeedbackPrefix))

	assert.Nil(t, out.ProductPage)
	assert.Nil(t, out.FAQPage)
	assert.NotNil(t, out.ComparisonPage, "comparison page is kept")
	assert.False(t, out.HasFatalError())
	assert.False(t, out.IsComplete)
}
