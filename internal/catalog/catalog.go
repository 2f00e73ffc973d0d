// Package catalog derives category facets from a loaded product collection
// and filters it in memory.
package catalog

import "roomify/internal/models"

// All selects every product.
const All = "all"

// DistinctCategories returns each category once, in order of first
// appearance. Comparison is case-sensitive.
func DistinctCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// FilterByCategory returns products unchanged for All, otherwise the products
// whose category equals selected, in their original order.
func FilterByCategory(products []models.Product, selected string) []models.Product {
	if selected == All {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == selected {
			out = append(out, p)
		}
	}
	return out
}

// Listing is what the products page renders.
type Listing struct {
	Products   []models.Product
	Categories []string
	Selected   string
	Total      int
}

// NewListing filters all by selected. Categories always come from the whole
// collection so picking one never hides the others. An empty selection
// means All.
func NewListing(all []models.Product, selected string) Listing {
	if selected == "" {
		selected = All
	}
	return Listing{
		Products:   FilterByCategory(all, selected),
		Categories: DistinctCategories(all),
		Selected:   selected,
		Total:      len(all),
	}
}
