// Package relevance assigns hand-tuned scores to candidates and orders
// result pages. Scores are request-scoped: each request captures one
// "now" and scores every candidate of the batch against it.
package relevance

import (
	"regexp"
	"strings"
	"time"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/query"
)

// Field weights, per matched token.
const (
	weightTitle       = 10
	weightBrand       = 8
	weightCategory    = 7
	weightKeywords    = 6
	weightDescription = 5
	weightPartial     = 4
	weightYearInTitle = 3
)

// Flat bonuses, once per candidate.
const (
	bonusInStock    = 2
	bonusFresh30d   = 3
	bonusFresh7d    = 2
	bonusWellRated  = 2
	wellRatedFloor  = 4.0
	freshWindow30d  = 30 * 24 * time.Hour
	freshWindow7d   = 7 * 24 * time.Hour
)

var yearToken = regexp.MustCompile(`^\d{4}$`)

// Scorer computes non-negative relevance scores. Now is captured once per
// request and injected so tests control the clock.
type Scorer struct {
	Now time.Time
}

// NewScorer creates a scorer pinned to the given instant.
func NewScorer(now time.Time) *Scorer {
	return &Scorer{Now: now}
}

// Score accumulates the weight of every token that hits a field, then the
// flat stock/freshness/rating bonuses. The result is always >= 0.
func (s *Scorer) Score(p *domain.Product, tokens query.TokenSet) int {
	score := 0

	title := strings.ToLower(p.Title)
	brand := strings.ToLower(p.Brand)
	category := strings.ToLower(p.Category.Name)
	keywords := strings.ToLower(strings.Join(p.Keywords, " "))
	description := strings.ToLower(p.Description)

	for _, token := range tokens.Terms() {
		if strings.Contains(title, token) {
			score += weightTitle
		}
		if brand != "" && strings.Contains(brand, token) {
			score += weightBrand
		}
		if category != "" && strings.Contains(category, token) {
			score += weightCategory
		}
		if keywords != "" && strings.Contains(keywords, token) {
			score += weightKeywords
		}
		if description != "" && strings.Contains(description, token) {
			score += weightDescription
		}

		// Trimmed-token hit: at least 3 characters must remain after
		// dropping the last one.
		if len(token) >= 4 && strings.Contains(title, token[:len(token)-1]) {
			score += weightPartial
		}

		// Year tokens ("2025") count when the title carries them verbatim.
		if yearToken.MatchString(token) && strings.Contains(p.Title, token) {
			score += weightYearInTitle
		}
	}

	if p.Availability == domain.AvailabilityInStock {
		score += bonusInStock
	}

	// Freshness bonuses stack: a product under 7 days old gets both.
	age := s.Now.Sub(p.CreatedAt)
	if age < freshWindow30d {
		score += bonusFresh30d
	}
	if age < freshWindow7d {
		score += bonusFresh7d
	}

	if p.Rating.Value >= wellRatedFloor {
		score += bonusWellRated
	}

	return score
}

// ScoreAll scores every candidate of a batch against the scorer's shared
// instant.
func (s *Scorer) ScoreAll(products []domain.Product, tokens query.TokenSet) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(products))
	for i := range products {
		scored = append(scored, domain.ScoredProduct{
			Product: products[i],
			Score:   s.Score(&products[i], tokens),
		})
	}
	return scored
}
