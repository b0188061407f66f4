// Package suggest derives related-search suggestions from a result set
// and a static term dictionary.
package suggest

import (
	"sort"
	"strings"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
)

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 10

// RelatedTerms maps a query term to the suggestions it should surface.
// Keys match when they appear as a substring of the lowercased raw query.
type RelatedTerms map[string][]string

// DefaultRelatedTerms is the storefront's hand-curated table.
func DefaultRelatedTerms() RelatedTerms {
	return RelatedTerms{
		"panjabi": {"punjabi collection", "eid panjabi", "cotton panjabi", "panjabi for men"},
		"punjabi": {"panjabi collection", "eid panjabi", "cotton panjabi"},
		"shirt":   {"formal shirt", "casual shirt", "half sleeve shirt", "t-shirt"},
		"saree":   {"silk saree", "cotton saree", "jamdani saree"},
		"shoe":    {"sneakers", "formal shoes", "sports shoes"},
		"watch":   {"smart watch", "analog watch", "watch for men"},
	}
}

// Synthesizer builds suggestion sets. The dictionary is injected so tests
// can supply their own table.
type Synthesizer struct {
	related RelatedTerms
}

// NewSynthesizer creates a Synthesizer; a nil table falls back to
// DefaultRelatedTerms.
func NewSynthesizer(related RelatedTerms) *Synthesizer {
	if related == nil {
		related = DefaultRelatedTerms()
	}
	return &Synthesizer{related: related}
}

// Suggest assembles an ordered, deduplicated set of at most
// MaxSuggestions strings: result category names, result brands, result
// keywords containing the raw query, then dictionary entries whose key is
// a substring of the lowercased query. A blank query or an empty result
// set yields no suggestions.
func (s *Synthesizer) Suggest(rawQuery string, results []domain.SearchResult) []string {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" || len(results) == 0 {
		return []string{}
	}
	queryLower := strings.ToLower(rawQuery)

	set := newOrderedSet()

	for _, r := range results {
		set.add(r.Category.Name)
	}
	for _, r := range results {
		set.add(r.Brand)
	}
	for _, r := range results {
		for _, kw := range r.Keywords {
			if strings.Contains(strings.ToLower(kw), queryLower) {
				set.add(kw)
			}
		}
	}
	// Sorted key walk keeps the output deterministic when several
	// dictionary keys match the query.
	keys := make([]string, 0, len(s.related))
	for key := range s.related {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(queryLower, key) {
			for _, term := range s.related[key] {
				set.add(term)
			}
		}
	}

	return set.take(MaxSuggestions)
}

// orderedSet keeps first-insertion order with case-sensitive dedup.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (o *orderedSet) add(item string) {
	if item == "" {
		return
	}
	if _, ok := o.seen[item]; ok {
		return
	}
	o.seen[item] = struct{}{}
	o.items = append(o.items, item)
}

func (o *orderedSet) take(n int) []string {
	if len(o.items) > n {
		return o.items[:n]
	}
	return o.items
}
