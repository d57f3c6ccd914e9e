package agents

import (
	"fmt"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
)

// ProductPage assembles the product listing page.
func ProductPage(data map[string]any, description string) contentflow.Page {
	name := data["product_name"]
	return contentflow.Page{
		"page_type": "product_listing",
		"meta": map[string]any{
			"title": name,
			"price": data["price"],
		},
		"content": map[string]any{
			"headline":    fmt.Sprintf("Discover %v", name),
			"description": description,
			"specs": map[string]any{
				"ingredients": listOrEmpty(data["key_ingredients"]),
				"usage":       data["how_to_use"],
			},
		},
	}
}

// FAQPage assembles the FAQ page from a question list.
func FAQPage(questions []string) contentflow.Page {
	items := make([]any, len(questions))
	for i, q := range questions {
		items[i] = q
	}
	return contentflow.Page{
		"page_type": "faq",
		"questions": items,
	}
}

// ComparisonPage assembles the comparison table of us against a competitor.
func ComparisonPage(us, them map[string]any) contentflow.Page {
	return contentflow.Page{
		"page_type": "comparison",
		"title":     fmt.Sprintf("%v vs %v", us["product_name"], them["product_name"]),
		"table": []any{
			row("Price", us["price"], them["price"]),
			row("Ingredients", listOrEmpty(us["key_ingredients"]), listOrEmpty(them["key_ingredients"])),
			row("Benefits", listOrEmpty(us["benefits"]), listOrEmpty(them["benefits"])),
		},
	}
}

func row(feature string, us, them any) map[string]any {
	return map[string]any{"feature": feature, "us": us, "them": them}
}

func listOrEmpty(v any) any {
	if v == nil {
		return []any{}
	}
	return v
}
