// Package guidelines serves the sustainable-web guideline catalogue. The
// data is a static excerpt of the W3C Web Sustainability Guidelines,
// embedded at build time; there is no backend call.
package guidelines

import (
	_ "embed"
	"encoding/json"

	"github.com/greenee/ecarbon/internal/model"
)

//go:embed wsg_guidelines.json
var raw []byte

var items []model.GuidelineItem

func init() {
	if err := json.Unmarshal(raw, &items); err != nil {
		panic("guidelines: embedded catalogue is invalid: " + err.Error())
	}
}

// All returns the catalogue in its curated order, grouped by category.
func All() []model.GuidelineItem {
	out := make([]model.GuidelineItem, len(items))
	copy(out, items)
	return out
}

// Categories returns the distinct category names in catalogue order.
func Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, it := range items {
		if !seen[it.CategoryName] {
			seen[it.CategoryName] = true
			out = append(out, it.CategoryName)
		}
	}
	return out
}
