package http

import (
	"context"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
)

// SearchService is the slice of the service layer the public endpoints
// need.
type SearchService interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
	Suggest(ctx context.Context, rawQuery string) ([]string, error)
}

// CatalogAdminService maintains the read model behind the search.
type CatalogAdminService interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
	UpsertProducts(ctx context.Context, products []domain.Product) error
	RemoveProduct(ctx context.Context, id string) error
	Reindex(ctx context.Context) (int, error)
}
