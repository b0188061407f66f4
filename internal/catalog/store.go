// Package catalog defines the gateway interfaces the search pipeline
// consumes. Implementations live in the postgres and memory subpackages;
// the pipeline itself never sees which one it runs against.
package catalog

import (
	"context"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/predicate"
)

// Store executes predicates against the denormalized product read model
// and maintains it.
type Store interface {
	// Find returns one bounded page of candidates matching the predicate.
	Find(ctx context.Context, p *predicate.Predicate, skip, limit int) ([]domain.Product, error)

	// Count returns the total number of candidates matching the predicate,
	// before any relevance filtering.
	Count(ctx context.Context, p *predicate.Predicate) (int, error)

	// Upsert adds or replaces a single product in the read model.
	Upsert(ctx context.Context, product *domain.Product) error

	// UpsertBatch adds or replaces multiple products.
	UpsertBatch(ctx context.Context, products []domain.Product) error

	// Delete removes a product from the read model by ID.
	Delete(ctx context.Context, id string) error
}

// CategoryResolver resolves free-text category input (slug or
// case-insensitive name) to a concrete category reference. A miss returns
// an error wrapping apperrors.ErrNotFound; callers treat a miss as "no
// category restriction", not a failure.
type CategoryResolver interface {
	ResolveCategory(ctx context.Context, text string) (*domain.CategoryRef, error)
}
