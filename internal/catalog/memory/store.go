// Package memory is the in-memory Store used in development mode and as
// the reference predicate semantics in tests. Matching is plain
// case-insensitive substring search, the same contract the Postgres
// backend compiles to SQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/ataullahmesbah/sooqra-one-sub002/pkg/errors"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/predicate"
)

// Store holds products in memory. Thread-safe via sync.RWMutex.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]int
	items []domain.Product
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{byID: make(map[string]int)}
}

// Upsert adds a product or replaces it in place, keeping its position.
func (s *Store) Upsert(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(*product)
	return nil
}

// UpsertBatch adds or replaces multiple products.
func (s *Store) UpsertBatch(_ context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range products {
		s.upsertLocked(products[i])
	}
	return nil
}

func (s *Store) upsertLocked(p domain.Product) {
	if idx, ok := s.byID[p.ID]; ok {
		s.items[idx] = p
		return
	}
	s.byID[p.ID] = len(s.items)
	s.items = append(s.items, p)
}

// Delete removes a product by ID. Unknown IDs are a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.items); i++ {
		s.byID[s.items[i].ID] = i
	}
	return nil
}

// Find returns one page of candidates matching the predicate, newest
// first with the ID as tie-break, the same gateway order the Postgres
// backend produces.
func (s *Store) Find(_ context.Context, p *predicate.Predicate, skip, limit int) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Product, 0)
	for i := range s.items {
		if matches(&s.items[i], p) {
			matched = append(matched, s.items[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		skip = len(matched)
	}
	end := skip + limit
	if limit < 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

// Count returns the number of candidates matching the predicate.
func (s *Store) Count(_ context.Context, p *predicate.Predicate) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.items {
		if matches(&s.items[i], p) {
			count++
		}
	}
	return count, nil
}

// ResolveCategory scans the read model for a category whose slug matches
// exactly or whose name matches case-insensitively.
func (s *Store) ResolveCategory(_ context.Context, text string) (*domain.CategoryRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(text)
	for i := range s.items {
		cat := s.items[i].Category
		if cat.ID == "" {
			continue
		}
		if cat.Slug == text || strings.ToLower(cat.Name) == lower {
			ref := cat
			return &ref, nil
		}
	}
	return nil, apperrors.NotFound("category", text)
}

// matches evaluates the AND of all present clauses against one product.
func matches(p *domain.Product, pred *predicate.Predicate) bool {
	if pred == nil {
		return true
	}

	if pred.Text != nil && !matchesText(p, pred.Text) {
		return false
	}

	if pred.Category != nil && p.Category.ID != pred.Category.CategoryID {
		return false
	}

	if pred.Price != nil && !matchesPrice(p, pred.Price) {
		return false
	}

	if pred.Availability != nil && p.Availability != pred.Availability.Availability {
		return false
	}

	return true
}

// matchesText is the OR over every (token, field) pair.
func matchesText(p *domain.Product, clause *predicate.TextClause) bool {
	for _, field := range clause.Fields {
		haystack := strings.ToLower(fieldText(p, field))
		if haystack == "" {
			continue
		}
		for _, token := range clause.Tokens {
			if strings.Contains(haystack, token) {
				return true
			}
		}
	}
	return false
}

// matchesPrice requires at least one entry in the clause currency within
// the (optional) bounds.
func matchesPrice(p *domain.Product, clause *predicate.PriceClause) bool {
	for _, price := range p.Prices {
		if price.Currency != clause.Currency {
			continue
		}
		if clause.Min != nil && price.Amount < *clause.Min {
			continue
		}
		if clause.Max != nil && price.Amount > *clause.Max {
			continue
		}
		return true
	}
	return false
}

// fieldText extracts the searchable text of one predicate field.
func fieldText(p *domain.Product, field predicate.Field) string {
	switch field {
	case predicate.FieldTitle:
		return p.Title
	case predicate.FieldDescription:
		return p.Description
	case predicate.FieldShortDescription:
		return p.ShortDescription
	case predicate.FieldBrand:
		return p.Brand
	case predicate.FieldKeywords:
		return strings.Join(p.Keywords, " ")
	case predicate.FieldProductCode:
		return p.ProductCode
	case predicate.FieldSizes:
		return strings.Join(p.Sizes, " ")
	case predicate.FieldSpecNames:
		parts := make([]string, 0, len(p.Specifications))
		for _, spec := range p.Specifications {
			parts = append(parts, spec.Name)
		}
		return strings.Join(parts, " ")
	case predicate.FieldSpecValues:
		parts := make([]string, 0, len(p.Specifications))
		for _, spec := range p.Specifications {
			parts = append(parts, spec.Value)
		}
		return strings.Join(parts, " ")
	case predicate.FieldFAQQuestions:
		parts := make([]string, 0, len(p.FAQs))
		for _, faq := range p.FAQs {
			parts = append(parts, faq.Question)
		}
		return strings.Join(parts, " ")
	case predicate.FieldFAQAnswers:
		parts := make([]string, 0, len(p.FAQs))
		for _, faq := range p.FAQs {
			parts = append(parts, faq.Answer)
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
