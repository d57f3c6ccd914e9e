package main

import (
	"strings"

	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
)

// demoClient stands in for a real model with -provider mock. It answers
// each prompt in the default set with a fixed, plausible document.
func demoClient() *llm.MockClient {
	return llm.NewMockClient("{}").WithHandler(func(req llm.Request) (string, error) {
		var prompt strings.Builder
		for _, m := range req.Messages {
			prompt.WriteString(m.Content)
			prompt.WriteByte('\n')
		}
		text := prompt.String()

		switch {
		case strings.Contains(text, "product data extractor"):
			return demoExtraction, nil
		case strings.Contains(text, "fictional competitor"):
			return demoCompetitor, nil
		case strings.Contains(text, "user questions"):
			return demoQuestions, nil
		case strings.Contains(text, `"faqs"`):
			return demoFAQs, nil
		case strings.Contains(text, "description"):
			return `{"description":"A lightweight daily serum that brightens and evens skin tone."}`, nil
		default:
			return "{}", nil
		}
	})
}

const demoExtraction = `{
  "product_name": "Glow Serum",
  "price": "$50",
  "concentration": "10% Vitamin C",
  "skin_type": "Oily",
  "key_ingredients": ["Vitamin C", "Hyaluronic Acid"],
  "benefits": ["Brightening", "Fades dark spots"],
  "how_to_use": "Apply 2-3 drops in the morning before sunscreen",
  "side_effects": "Mild tingling for sensitive skin"
}`

const demoCompetitor = `{
  "product_name": "Radiance Boost",
  "price": "$45",
  "key_ingredients": ["Niacinamide", "Licorice Root"],
  "benefits": ["Evens skin tone"]
}`

const demoQuestions = `{"questions": [
  "How often should I apply it?",
  "Can I use it with retinol?",
  "Is it safe for sensitive skin?",
  "When will I see results?",
  "Does it need to be refrigerated?",
  "Can I wear it under makeup?"
]}`

const demoFAQs = `{"faqs": [
  {"question": "How often should I apply it?", "answer": "Once every morning."},
  {"question": "Can I use it with retinol?", "answer": "Use retinol at night and the serum in the morning."},
  {"question": "Is it safe for sensitive skin?", "answer": "Some users feel mild tingling."}
]}`
