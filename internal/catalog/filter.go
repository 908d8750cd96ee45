// Package catalog implements the product listing logic: predicate-based
// filtering, pagination and the debounced listing session.
package catalog

import (
	"strings"

	"marketplace-service/internal/models"
)

// Range bounds a numeric attribute. The zero value means "no constraint".
type Range struct {
	Min float64 `json:"min" form:"min"`
	Max float64 `json:"max" form:"max"`
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterValues enumerates the selected values per product attribute. Every
// dimension is an independent predicate; an empty selection means "no
// constraint", never "exclude all". All active predicates are ANDed.
type FilterValues struct {
	Shapes    []string `json:"shapes"`
	Carat     Range    `json:"carat"`
	Price     Range    `json:"price"`
	Colors    []string `json:"colors"`
	Clarities []string `json:"clarities"`
	Cuts      []string `json:"cuts"`
	Search    string   `json:"search"`
}

// Apply filters products by the criteria. The source slice is never mutated;
// the result is always a fresh slice.
func Apply(products []models.Product, f FilterValues) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matches(p, f) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matches(p models.Product, f FilterValues) bool {
	if !containsFold(f.Shapes, p.Shape) {
		return false
	}
	if !f.Carat.IsZero() && !f.Carat.Contains(p.Carat) {
		return false
	}
	if !f.Price.IsZero() && !f.Price.Contains(p.Price) {
		return false
	}
	if !containsFold(f.Colors, p.Color) {
		return false
	}
	if !containsFold(f.Clarities, p.Clarity) {
		return false
	}
	if !containsFold(f.Cuts, p.Cut) {
		return false
	}
	if f.Search != "" && !matchesSearch(p, f.Search) {
		return false
	}
	return true
}

// containsFold treats an empty selection as "no constraint".
func containsFold(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

// matchesSearch looks for a case-insensitive substring across the fixed set
// of searchable string fields.
func matchesSearch(p models.Product, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range []string{p.Name, p.Shape, p.Color, p.Clarity, p.Cut, p.Type} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Paginate slices one page out of the list. Pages are 1-based; out-of-range
// pages are clamped. The second return value is the total page count.
func Paginate(products []models.Product, page, perPage int) ([]models.Product, int) {
	if perPage <= 0 {
		perPage = 20
	}
	totalPages := (len(products) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(products) {
		start = len(products)
	}
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], totalPages
}
