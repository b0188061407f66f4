// Package query turns raw search text into the normalized token set the
// predicate builder and relevance scorer operate on.
package query

import (
	"regexp"
	"sort"
	"strings"
)

// stopwords are dropped from every query before expansion.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// nonToken matches every character that is not a letter, digit,
// underscore, space, or hyphen; such characters are replaced with spaces
// before tokenization.
var nonToken = regexp.MustCompile(`[^a-z0-9_\s-]+`)

// VariantDict maps a token to its known spelling/typo variants. The
// dictionary is immutable lookup data injected into the Normalizer so
// tests can supply their own tables.
type VariantDict map[string][]string

// DefaultVariants covers the spellings our shoppers actually type.
func DefaultVariants() VariantDict {
	return VariantDict{
		"panjabi": {"panjabi", "punjabi"},
		"punjabi": {"punjabi", "panjabi"},
		"tshirt":  {"tshirt", "t-shirt", "tee"},
		"t-shirt": {"t-shirt", "tshirt", "tee"},
		"shari":   {"shari", "saree", "sari"},
		"saree":   {"saree", "shari", "sari"},
		"kurti":   {"kurti", "kurta"},
		"trouser": {"trouser", "trousers", "pant"},
	}
}

// TokenSet is a deduplicated set of normalized search tokens. Membership
// order is not significant; Terms returns a deterministic sorted slice for
// serialization.
type TokenSet map[string]struct{}

// Empty reports whether the set holds no tokens.
func (t TokenSet) Empty() bool { return len(t) == 0 }

// Contains reports set membership.
func (t TokenSet) Contains(token string) bool {
	_, ok := t[token]
	return ok
}

// Terms returns the tokens as a sorted slice.
func (t TokenSet) Terms() []string {
	terms := make([]string, 0, len(t))
	for tok := range t {
		terms = append(terms, tok)
	}
	sort.Strings(terms)
	return terms
}

// Normalizer converts raw query text into a TokenSet.
type Normalizer struct {
	variants VariantDict
}

// NewNormalizer creates a Normalizer with the given variant dictionary.
// A nil dictionary falls back to DefaultVariants.
func NewNormalizer(variants VariantDict) *Normalizer {
	if variants == nil {
		variants = DefaultVariants()
	}
	return &Normalizer{variants: variants}
}

// Normalize lowercases and cleans the raw query, splits it into tokens,
// drops stopwords and single-character tokens, then expands each survivor
// with partial-token forms and dictionary variants. An empty or
// stopword-only query yields an empty set.
func (n *Normalizer) Normalize(raw string) TokenSet {
	cleaned := nonToken.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), " ")

	set := make(TokenSet)
	for _, token := range strings.Fields(cleaned) {
		if !keep(token) {
			continue
		}

		set.add(token)

		// Partial forms tolerate trailing typos and plural suffixes.
		if len(token) > 3 {
			set.add(token[:len(token)-1])
			set.add(token[:len(token)-2])
		}

		for _, variant := range n.variants[token] {
			set.add(variant)
		}
	}

	return set
}

// add inserts a candidate token, re-applying the keep filter so trimmed or
// dictionary forms can never reintroduce a stopword or a one-character
// token.
func (t TokenSet) add(token string) {
	if keep(token) {
		t[token] = struct{}{}
	}
}

func keep(token string) bool {
	if len(token) <= 1 {
		return false
	}
	_, stop := stopwords[token]
	return !stop
}
