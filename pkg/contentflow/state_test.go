package contentflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorEntry_String(t *testing.T) {
	fatal := ErrorEntry{Kind: KindFatal, Message: "DataIngestion: No valid input provided."}
	feedback := ErrorEntry{Kind: KindReviewFeedback, Agent: AgentReviewer, Message: "FAQ page has too few questions."}

	assert.Equal(t, "DataIngestion: No valid input provided.", fatal.String())
	assert.Equal(t, "ReviewFeedback: FAQ page has too few questions.", feedback.String())
	assert.True(t, feedback.IsFeedback())
	assert.False(t, fatal.IsFeedback())
	assert.Equal(t, "fatal", KindFatal.String())
	assert.Equal(t, "review_feedback", KindReviewFeedback.String())
	assert.Equal(t, "unknown", ErrorKind(9).String())
}

func TestState_CircuitBreakerCondition(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *State)
		want  bool
	}{
		{"no errors", func(s *State) {}, false},
		{"trailing fatal", func(s *State) { s.AddError("boom") }, true},
		{"trailing feedback", func(s *State) { s.AddFeedback(AgentReviewer, "fix it") }, false},
		{"fatal then feedback", func(s *State) {
			s.AddError("boom")
			s.AddFeedback(AgentReviewer, "fix it")
		}, false},
		{"feedback then fatal", func(s *State) {
			s.AddFeedback(AgentReviewer, "fix it")
			s.AddAgentError(AgentDrafter, "boom")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			tt.build(&s)
			assert.Equal(t, tt.want, s.HasFatalError())
		})
	}
}

func TestState_ErrorHelpers(t *testing.T) {
	var s State
	_, ok := s.LastError()
	assert.False(t, ok)
	_, ok = s.LatestFeedback()
	assert.False(t, ok)
	assert.Empty(t, s.ErrorStrings())

	s.AddErrorf("step %d failed", 2)
	s.AddFeedback(AgentReviewer, "first")
	s.AddFeedback(AgentReviewer, "second")

	last, ok := s.LastError()
	require.True(t, ok)
	assert.Equal(t, "second", last.Message)

	fb, ok := s.LatestFeedback()
	require.True(t, ok)
	assert.Equal(t, "second", fb)

	fatal := s.FatalErrors()
	require.Len(t, fatal, 1)
	assert.Equal(t, "step 2 failed", fatal[0].Message)

	assert.Equal(t, []string{
		"step 2 failed",
		"ReviewFeedback: first",
		"ReviewFeedback: second",
	}, s.ErrorStrings())
}

func TestState_Predicates(t *testing.T) {
	var s State
	assert.False(t, s.HasProductData())
	assert.False(t, s.ResearchComplete())
	assert.False(t, s.PagesComplete())
	assert.Nil(t, s.PresentPages())

	s.ProductData = map[string]any{}
	assert.False(t, s.HasProductData(), "empty record counts as absent")

	s.CompetitorData = map[string]any{}
	assert.False(t, s.ResearchComplete(), "questions still missing")
	s.GeneratedQuestions = []string{"Q1"}
	assert.True(t, s.ResearchComplete())

	s.ProductPage = Page{}
	s.ComparisonPage = Page{}
	assert.False(t, s.PagesComplete())
	assert.Equal(t, []string{PageProduct, PageComparison}, s.PresentPages())

	s.FAQPage = Page{}
	assert.True(t, s.PagesComplete())
}

func TestState_Page(t *testing.T) {
	s := fullState()
	assert.Equal(t, s.ProductPage, s.Page(PageProduct))
	assert.Equal(t, s.FAQPage, s.Page(PageFAQ))
	assert.Equal(t, s.ComparisonPage, s.Page(PageComparison))
	assert.Nil(t, s.Page("other_page"))
	assert.Equal(t, PageNames(), s.PresentPages())
}

func TestNewStateFromProduct_Copies(t *testing.T) {
	data := map[string]any{"product_name": "Glow Serum"}
	s := NewStateFromProduct(data)
	data["product_name"] = "changed"

	assert.Equal(t, "Glow Serum", s.ProductInput["product_name"])
	assert.Nil(t, s.ProductData, "unvalidated records are not product data")
	assert.False(t, s.HasProductData())
	assert.True(t, s.HasProductInput())
	assert.Equal(t, "raw", NewState("raw").RawInput)
}

func TestState_Clone(t *testing.T) {
	s := fullState()
	s.ProductInput = map[string]any{"product_name": "Glow Serum"}
	s.ProductData["key_ingredients"] = []any{"Vitamin C"}
	s.ProductData["nested"] = map[string]any{"a": []string{"x"}}
	s.AddError("boom")

	c := s.Clone()
	c.ProductData["product_name"] = "changed"
	c.ProductInput["product_name"] = "changed"
	c.ProductData["key_ingredients"].([]any)[0] = "changed"
	c.ProductData["nested"].(map[string]any)["a"].([]string)[0] = "changed"
	c.GeneratedQuestions[0] = "changed"
	c.FAQPage["questions"].([]any)[0] = "changed"
	c.Errors[0].Message = "changed"
	c.ComparisonPage = nil

	assert.Equal(t, "Glow Serum", s.ProductData["product_name"])
	assert.Equal(t, "Glow Serum", s.ProductInput["product_name"])
	assert.Equal(t, "Vitamin C", s.ProductData["key_ingredients"].([]any)[0])
	assert.Equal(t, "x", s.ProductData["nested"].(map[string]any)["a"].([]string)[0])
	assert.Equal(t, "Q1", s.GeneratedQuestions[0])
	assert.Equal(t, "a", s.FAQPage["questions"].([]any)[0])
	assert.Equal(t, "boom", s.Errors[0].Message)
	assert.NotNil(t, s.ComparisonPage)

	var empty State
	assert.Nil(t, empty.Clone().ProductData)
}

func TestAgent_Known(t *testing.T) {
	for _, a := range Agents() {
		assert.True(t, a.Known(), a)
	}
	assert.False(t, Finish.Known())
	assert.False(t, Agent("").Known())
	assert.False(t, Agent("editor").Known())
	assert.Equal(t, "drafter", AgentDrafter.String())
}
