// Package predicate models the store-agnostic filter a search request
// compiles into. A Predicate is an AND of optional clauses; the text
// clause is itself an OR across every (token, field) pair. Storage
// backends compile the structure independently, so the same predicate can
// run against Postgres or the in-memory store.
package predicate

import (
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/query"
)

// Field identifies one searchable text field of a product.
type Field string

const (
	FieldTitle            Field = "title"
	FieldDescription      Field = "description"
	FieldShortDescription Field = "short_description"
	FieldBrand            Field = "brand"
	FieldKeywords         Field = "keywords"
	FieldProductCode      Field = "product_code"
	FieldSizes            Field = "sizes"
	FieldSpecNames        Field = "spec_names"
	FieldSpecValues       Field = "spec_values"
	FieldFAQQuestions     Field = "faq_questions"
	FieldFAQAnswers       Field = "faq_answers"
)

// TextFields is the full field list the text clause fans out over.
func TextFields() []Field {
	return []Field{
		FieldTitle,
		FieldDescription,
		FieldShortDescription,
		FieldBrand,
		FieldKeywords,
		FieldProductCode,
		FieldSizes,
		FieldSpecNames,
		FieldSpecValues,
		FieldFAQQuestions,
		FieldFAQAnswers,
	}
}

// TextClause matches a candidate when ANY token is a case-insensitive
// substring of ANY listed field. Recall is deliberately broad here; the
// relevance scorer restores precision afterwards.
type TextClause struct {
	Tokens []string
	Fields []Field
}

// CategoryClause restricts candidates to one resolved category ID.
type CategoryClause struct {
	CategoryID string
}

// PriceClause requires at least one BDT price entry within [Min, Max].
// Either bound may be nil.
type PriceClause struct {
	Currency string
	Min      *float64
	Max      *float64
}

// AvailabilityClause is an exact match on the availability enum.
type AvailabilityClause struct {
	Availability domain.Availability
}

// Predicate is the AND combination of all present clauses.
type Predicate struct {
	Text         *TextClause
	Category     *CategoryClause
	Price        *PriceClause
	Availability *AvailabilityClause
}

// Empty reports whether no clause is present, i.e. the predicate would
// match the whole catalog.
func (p *Predicate) Empty() bool {
	return p.Text == nil && p.Category == nil && p.Price == nil && p.Availability == nil
}

// Builder assembles a Predicate from normalized tokens and structured
// filters. Category resolution happens before the builder runs; it only
// receives a resolved category ID (or none).
type Builder struct {
	tokens       query.TokenSet
	categoryID   string
	minPrice     *float64
	maxPrice     *float64
	availability domain.Availability
}

// NewBuilder starts a predicate for the given token set.
func NewBuilder(tokens query.TokenSet) *Builder {
	return &Builder{tokens: tokens}
}

// WithCategoryID adds a category restriction. An empty ID (unresolved
// category) leaves the predicate unrestricted.
func (b *Builder) WithCategoryID(id string) *Builder {
	b.categoryID = id
	return b
}

// WithPriceRange adds BDT price bounds; either may be nil.
func (b *Builder) WithPriceRange(min, max *float64) *Builder {
	b.minPrice = min
	b.maxPrice = max
	return b
}

// WithAvailability adds an exact availability match.
func (b *Builder) WithAvailability(a domain.Availability) *Builder {
	b.availability = a
	return b
}

// Build produces the final predicate.
func (b *Builder) Build() *Predicate {
	p := &Predicate{}

	if !b.tokens.Empty() {
		p.Text = &TextClause{
			Tokens: b.tokens.Terms(),
			Fields: TextFields(),
		}
	}

	if b.categoryID != "" {
		p.Category = &CategoryClause{CategoryID: b.categoryID}
	}

	if b.minPrice != nil || b.maxPrice != nil {
		p.Price = &PriceClause{
			Currency: domain.BDT,
			Min:      b.minPrice,
			Max:      b.maxPrice,
		}
	}

	if b.availability != "" {
		p.Availability = &AvailabilityClause{Availability: b.availability}
	}

	return p
}
