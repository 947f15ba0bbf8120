// Package pipeline turns the full in-memory product list and the active
// filter criteria into a paginated, ordered view. It is a pure function
// pipeline with no state of its own; callers re-derive the view whenever the
// product list, the best-seller set, the criteria, or the page change.
package pipeline

import (
	"sort"
	"strings"

	"github.com/shopverse/storefront/internal/domain"
)

// PageSize is the fixed number of products per page.
const PageSize = 15

// PageView is the derived page of a filtered, sorted product list.
type PageView struct {
	Products   []domain.Product `json:"products"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
}

// Apply runs the fixed filter -> sort -> paginate pipeline. bestSellers is
// the set of product ids the catalog reports as best sellers; it only
// affects the best_selling sort. The page number is 1-based and clamped into
// [1, totalPages], so a page past the end returns the last valid page.
func Apply(products []domain.Product, bestSellers map[int64]struct{}, criteria domain.FilterCriteria, page int) PageView {
	filtered := Filter(products, criteria)
	Sort(filtered, criteria.Sort, bestSellers)
	return paginate(filtered, page)
}

// Filter returns the products matching the criteria, preserving input order.
// Category, type, and manufacturer match case-insensitively; empty criteria
// fields keep everything.
func Filter(products []domain.Product, criteria domain.FilterCriteria) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchField(p.Category, criteria.Category) {
			continue
		}
		if !matchField(p.Type, criteria.Type) {
			continue
		}
		if !matchField(p.Manufacturer, criteria.Manufacturer) {
			continue
		}
		if criteria.PriceBucket != "" && !domain.InBucket(criteria.PriceBucket, p.Price.Float64()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products in place by the given sort key. All sorts are stable,
// so ties keep their prior relative order. An empty key falls back to the
// featured sort.
func Sort(products []domain.Product, sortKey string, bestSellers map[int64]struct{}) {
	switch sortKey {
	case domain.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Float64() < products[j].Price.Float64()
		})
	case domain.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.Float64() > products[j].Price.Float64()
		})
	case domain.SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})
	case domain.SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name > products[j].Name
		})
	case domain.SortBestSelling:
		sort.SliceStable(products, func(i, j int) bool {
			_, iBest := bestSellers[products[i].ID]
			_, jBest := bestSellers[products[j].ID]
			return iBest && !jBest
		})
	case domain.SortNewest:
		// Lexicographic descending on the raw timestamp string; correct for
		// ISO-8601 and any other lexicographically time-ordered format.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].DateAdded > products[j].DateAdded
		})
	default:
		// Featured (and the empty default): featured products first.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Featured && !products[j].Featured
		})
	}
}

// matchField reports whether the product field equals the wanted value,
// ignoring case. An empty wanted value matches everything.
func matchField(have, want string) bool {
	if want == "" {
		return true
	}
	return strings.EqualFold(have, want)
}

// paginate slices the filtered list into a 1-based page of PageSize items.
func paginate(filtered []domain.Product, page int) PageView {
	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	return PageView{
		Products:   filtered[start:end],
		Page:       page,
		PerPage:    PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
}
