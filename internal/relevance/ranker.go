package relevance

import (
	"sort"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
)

// Rank filters and orders one fetched page of scored candidates.
//
// When a text search is active, zero-score candidates are dropped: the
// predicate ORs tokens across all fields, so a candidate can reach this
// point on a match the scorer gives no weight to. Category/price-only
// searches keep everything.
//
// Ordering uses a stable sort for every mode, so candidates with equal
// keys keep their incoming (gateway) order and ranking the same input
// twice yields the same output. Ranking applies to the page the gateway
// already returned, not the full matching set, so a page can end up
// shorter than the requested limit.
func Rank(scored []domain.ScoredProduct, sortMode string, textSearchActive bool) []domain.ScoredProduct {
	ranked := scored
	if textSearchActive {
		ranked = make([]domain.ScoredProduct, 0, len(scored))
		for _, sp := range scored {
			if sp.Score > 0 {
				ranked = append(ranked, sp)
			}
		}
	}

	switch sortMode {
	case domain.SortPriceAsc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Product.PriceBDT() < ranked[j].Product.PriceBDT()
		})
	case domain.SortPriceDesc:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Product.PriceBDT() > ranked[j].Product.PriceBDT()
		})
	case domain.SortNewest:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Product.CreatedAt.After(ranked[j].Product.CreatedAt)
		})
	case domain.SortRating:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Product.Rating.Value > ranked[j].Product.Rating.Value
		})
	default:
		// Relevance: score descending.
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score > ranked[j].Score
		})
	}

	return ranked
}
