package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/catalog"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/event"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/predicate"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/query"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/relevance"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/suggest"
	apperrors "github.com/ataullahmesbah/sooqra-one-sub002/pkg/errors"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/slug"
)

// Reindexer pulls the full product list from the catalog service.
type Reindexer interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// Analytics publishes search analytics events.
type Analytics interface {
	SearchPerformed(ctx context.Context, payload event.SearchPerformed)
}

// Deps carries the collaborators of the search service. Store, Resolver
// and Logger are required; everything else is optional and nil-safe.
type Deps struct {
	Store     catalog.Store
	Resolver  catalog.CategoryResolver
	Logger    *slog.Logger
	Analytics Analytics
	Cache     *SuggestionCache
	Reindexer Reindexer

	// Now is the clock used for freshness scoring. Defaults to time.Now.
	Now func() time.Time
}

// SearchService runs the search pipeline: normalize, build predicate,
// fetch candidates, score, rank, project, suggest. It also maintains the
// catalog read model the pipeline queries.
type SearchService struct {
	store       catalog.Store
	resolver    catalog.CategoryResolver
	normalizer  *query.Normalizer
	synthesizer *suggest.Synthesizer
	analytics   Analytics
	cache       *SuggestionCache
	reindexer   Reindexer
	logger      *slog.Logger
	now         func() time.Time
}

func NewSearchService(deps Deps) *SearchService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SearchService{
		store:       deps.Store,
		resolver:    deps.Resolver,
		normalizer:  query.NewNormalizer(query.DefaultVariants()),
		synthesizer: suggest.NewSynthesizer(suggest.DefaultRelatedTerms()),
		analytics:   deps.Analytics,
		cache:       deps.Cache,
		reindexer:   deps.Reindexer,
		logger:      deps.Logger,
		now:         now,
	}
}

// Search runs one request through the whole pipeline. Every failure path
// collapses into the standard failure envelope; the returned error tells
// the transport layer to answer with a 500.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	started := time.Now()
	req.ApplyDefaults()
	rawQuery := strings.TrimSpace(req.Query)

	// A blank search yields zero results, not "all products". The store
	// is never consulted.
	if rawQuery == "" && req.Category == "" {
		searchRequests.WithLabelValues(outcomeBlank).Inc()
		return domain.EmptySearchResponse(req.Page, req.Limit), nil
	}

	tokens := s.normalizer.Normalize(rawQuery)

	pred, err := s.buildPredicate(ctx, tokens, &req)
	if err != nil {
		return s.fail(ctx, err)
	}

	// A stopword-only query normalizes to nothing. With no other clause
	// present the predicate would match the whole catalog, so it gets the
	// blank-search treatment instead.
	if pred.Empty() {
		searchRequests.WithLabelValues(outcomeBlank).Inc()
		return domain.EmptySearchResponse(req.Page, req.Limit), nil
	}

	candidates, err := s.store.Find(ctx, pred, req.Offset(), req.Limit)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("find candidates: %w", err))
	}
	// The total counts predicate matches, not score survivors, so
	// pagination stays stable across pages.
	total, err := s.store.Count(ctx, pred)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("count candidates: %w", err))
	}

	// One instant scores the whole batch, so freshness bonuses are
	// consistent across candidates.
	scorer := relevance.NewScorer(s.now())
	scored := scorer.ScoreAll(candidates, tokens)
	ranked := relevance.Rank(scored, req.Sort, !tokens.Empty())

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, sc := range ranked {
		results = append(results, domain.NewSearchResult(sc.Product))
	}

	suggestions := s.synthesizer.Suggest(rawQuery, results)

	resp := &domain.SearchResponse{
		Success: true,
		Data:    results,
		Pagination: domain.Pagination{
			Page:         req.Page,
			Limit:        req.Limit,
			TotalPages:   totalPages(total, req.Limit),
			TotalResults: total,
		},
		Suggestions: suggestions,
		SearchTerms: tokens.Terms(),
	}

	elapsed := time.Since(started)
	searchRequests.WithLabelValues(outcomeOK).Inc()
	searchDuration.Observe(elapsed.Seconds())
	searchResultCount.Observe(float64(len(results)))

	// Analytics cover text searches only; pure category or filter
	// browsing is not a query worth mining.
	if s.analytics != nil && !tokens.Empty() {
		s.analytics.SearchPerformed(ctx, event.SearchPerformed{
			Query:        rawQuery,
			Category:     req.Category,
			Sort:         req.Sort,
			Page:         req.Page,
			Limit:        req.Limit,
			TotalResults: total,
			DurationMs:   elapsed.Milliseconds(),
		})
	}

	return resp, nil
}

// buildPredicate assembles the AND-of-clauses filter. A category value
// that looks like an ID filters directly; otherwise it is resolved by
// slug or name, and a resolution miss drops the clause rather than
// failing the search.
func (s *SearchService) buildPredicate(ctx context.Context, tokens query.TokenSet, req *domain.SearchRequest) (*predicate.Predicate, error) {
	builder := predicate.NewBuilder(tokens)

	if req.Category != "" {
		if _, err := uuid.Parse(req.Category); err == nil {
			builder.WithCategoryID(req.Category)
		} else {
			ref, err := s.resolver.ResolveCategory(ctx, req.Category)
			switch {
			case err == nil:
				builder.WithCategoryID(ref.ID)
			case errors.Is(err, apperrors.ErrNotFound):
				s.logger.DebugContext(ctx, "category did not resolve, dropping filter",
					slog.String("category", req.Category),
				)
			default:
				return nil, fmt.Errorf("resolve category %q: %w", req.Category, err)
			}
		}
	}

	if req.MinPrice != nil || req.MaxPrice != nil {
		builder.WithPriceRange(req.MinPrice, req.MaxPrice)
	}
	if req.Availability != "" {
		builder.WithAvailability(domain.Availability(req.Availability))
	}

	return builder.Build(), nil
}

func (s *SearchService) fail(ctx context.Context, err error) (*domain.SearchResponse, error) {
	searchRequests.WithLabelValues(outcomeFailed).Inc()
	s.logger.ErrorContext(ctx, "search failed", slog.String("error", err.Error()))
	return domain.FailureResponse("search is temporarily unavailable"), err
}

func totalPages(total, limit int) int {
	if total <= 0 || limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Suggest returns related search terms for a query, serving repeated
// queries from the cache.
func (s *SearchService) Suggest(ctx context.Context, rawQuery string) ([]string, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		return []string{}, nil
	}

	if cached, ok := s.cache.Get(ctx, rawQuery); ok {
		suggestCacheHits.Inc()
		return cached, nil
	}
	suggestCacheMisses.Inc()

	tokens := s.normalizer.Normalize(rawQuery)
	if tokens.Empty() {
		return []string{}, nil
	}

	pred := predicate.NewBuilder(tokens).Build()
	candidates, err := s.store.Find(ctx, pred, 0, domain.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("find suggestion candidates: %w", err)
	}

	scorer := relevance.NewScorer(s.now())
	ranked := relevance.Rank(scorer.ScoreAll(candidates, tokens), domain.SortRelevance, true)

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, sc := range ranked {
		results = append(results, domain.NewSearchResult(sc.Product))
	}

	suggestions := s.synthesizer.Suggest(rawQuery, results)
	s.cache.Set(ctx, rawQuery, suggestions)
	return suggestions, nil
}

// UpsertProduct writes one product document into the read model. A blank
// category slug is derived from the category name so slug lookups work
// for documents that never carried one.
func (s *SearchService) UpsertProduct(ctx context.Context, product domain.Product) error {
	if err := normalizeProduct(&product, s.now()); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, &product); err != nil {
		return fmt.Errorf("upsert product %s: %w", product.ID, err)
	}
	return nil
}

// UpsertProducts writes a batch of product documents.
func (s *SearchService) UpsertProducts(ctx context.Context, products []domain.Product) error {
	now := s.now()
	for i := range products {
		if err := normalizeProduct(&products[i], now); err != nil {
			return err
		}
	}
	if err := s.store.UpsertBatch(ctx, products); err != nil {
		return fmt.Errorf("upsert %d products: %w", len(products), err)
	}
	return nil
}

// RemoveProduct deletes one product from the read model.
func (s *SearchService) RemoveProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// Reindex replaces the read model contents with the catalog service's
// current product list and returns how many documents were written.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.reindexer == nil {
		return 0, apperrors.Unavailable("reindexing is not configured")
	}

	products, err := s.reindexer.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalog: %w", err)
	}
	if err := s.UpsertProducts(ctx, products); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "reindex complete", slog.Int("products", len(products)))
	return len(products), nil
}

func normalizeProduct(p *domain.Product, now time.Time) error {
	if p.ID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if p.Title == "" {
		return apperrors.InvalidInput("product title is required")
	}
	if p.Category.Slug == "" && p.Category.Name != "" {
		p.Category.Slug = slug.Generate(p.Category.Name)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}
