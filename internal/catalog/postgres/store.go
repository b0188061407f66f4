// Package postgres implements the catalog Store over the denormalized
// products read model. Predicates compile to parameterized SQL; text
// matching is ILIKE with escaped patterns, the SQL rendition of the same
// substring contract the memory store evaluates directly.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/database"
	apperrors "github.com/ataullahmesbah/sooqra-one-sub002/pkg/errors"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/predicate"
)

// productColumns is the standard SELECT column list for the read model.
const productColumns = `id, title, description, short_description, brand, product_code,
	category_id, category_name, category_slug, prices, quantity, availability,
	rating_value, rating_count, is_global, target_country, target_city,
	keywords, sizes, specifications, faqs, created_at, updated_at`

// Store is the PostgreSQL-backed catalog store.
type Store struct {
	db database.DBTX
}

// NewStore creates a PostgreSQL-backed Store.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

// Find returns one page of candidates matching the predicate. Ordering is
// newest-first with the ID as tiebreaker so paging is deterministic; the
// relevance ranker reorders the page afterwards.
func (s *Store) Find(ctx context.Context, p *predicate.Predicate, skip, limit int) ([]domain.Product, error) {
	where, args := compilePredicate(p)

	args = append(args, limit)
	limitIdx := len(args)
	args = append(args, skip)
	offsetIdx := len(args)

	query := fmt.Sprintf(
		`SELECT %s FROM products%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		productColumns, where, limitIdx, offsetIdx,
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// Count returns the total number of candidates matching the predicate.
func (s *Store) Count(ctx context.Context, p *predicate.Predicate) (int, error) {
	where, args := compilePredicate(p)

	var count int
	query := "SELECT COUNT(*) FROM products" + where
	if err := s.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Upsert inserts a product or replaces the stored projection in place.
func (s *Store) Upsert(ctx context.Context, product *domain.Product) error {
	pricesJSON, err := json.Marshal(orEmptyPrices(product.Prices))
	if err != nil {
		return fmt.Errorf("marshal prices: %w", err)
	}
	specsJSON, err := json.Marshal(orEmptySpecs(product.Specifications))
	if err != nil {
		return fmt.Errorf("marshal specifications: %w", err)
	}
	faqsJSON, err := json.Marshal(orEmptyFAQs(product.FAQs))
	if err != nil {
		return fmt.Errorf("marshal faqs: %w", err)
	}

	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO products (id, title, description, short_description, brand, product_code,
			category_id, category_name, category_slug, prices, quantity, availability,
			rating_value, rating_count, is_global, target_country, target_city,
			keywords, sizes, specifications, faqs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			short_description = EXCLUDED.short_description,
			brand = EXCLUDED.brand,
			product_code = EXCLUDED.product_code,
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			category_slug = EXCLUDED.category_slug,
			prices = EXCLUDED.prices,
			quantity = EXCLUDED.quantity,
			availability = EXCLUDED.availability,
			rating_value = EXCLUDED.rating_value,
			rating_count = EXCLUDED.rating_count,
			is_global = EXCLUDED.is_global,
			target_country = EXCLUDED.target_country,
			target_city = EXCLUDED.target_city,
			keywords = EXCLUDED.keywords,
			sizes = EXCLUDED.sizes,
			specifications = EXCLUDED.specifications,
			faqs = EXCLUDED.faqs,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.Exec(ctx, query,
		product.ID,
		product.Title,
		product.Description,
		product.ShortDescription,
		product.Brand,
		product.ProductCode,
		product.Category.ID,
		product.Category.Name,
		product.Category.Slug,
		pricesJSON,
		product.Quantity,
		string(product.Availability),
		product.Rating.Value,
		product.Rating.Count,
		product.IsGlobal,
		product.TargetCountry,
		product.TargetCity,
		orEmptyStrings(product.Keywords),
		orEmptyStrings(product.Sizes),
		specsJSON,
		faqsJSON,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// UpsertBatch upserts each product in turn.
func (s *Store) UpsertBatch(ctx context.Context, products []domain.Product) error {
	for i := range products {
		if err := s.Upsert(ctx, &products[i]); err != nil {
			return fmt.Errorf("upsert batch item %s: %w", products[i].ID, err)
		}
	}
	return nil
}

// Delete removes a product from the read model.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ResolveCategory looks up a category by exact slug or case-insensitive
// name over the denormalized category columns.
func (s *Store) ResolveCategory(ctx context.Context, text string) (*domain.CategoryRef, error) {
	query := `
		SELECT DISTINCT category_id, category_name, category_slug
		FROM products
		WHERE category_id <> '' AND (category_slug = $1 OR LOWER(category_name) = LOWER($1))
		LIMIT 1`

	var ref domain.CategoryRef
	err := s.db.QueryRow(ctx, query, text).Scan(&ref.ID, &ref.Name, &ref.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("category", text)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	return &ref, nil
}

// scanProduct reads one row into a Product, decoding the JSONB columns.
func scanProduct(rows pgx.Rows) (*domain.Product, error) {
	var (
		p      domain.Product
		prices []byte
		specs  []byte
		faqs   []byte
		avail  string
	)

	err := rows.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.ShortDescription,
		&p.Brand,
		&p.ProductCode,
		&p.Category.ID,
		&p.Category.Name,
		&p.Category.Slug,
		&prices,
		&p.Quantity,
		&avail,
		&p.Rating.Value,
		&p.Rating.Count,
		&p.IsGlobal,
		&p.TargetCountry,
		&p.TargetCity,
		&p.Keywords,
		&p.Sizes,
		&specs,
		&faqs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Availability = domain.Availability(avail)
	if err := json.Unmarshal(prices, &p.Prices); err != nil {
		return nil, fmt.Errorf("unmarshal prices: %w", err)
	}
	if err := json.Unmarshal(specs, &p.Specifications); err != nil {
		return nil, fmt.Errorf("unmarshal specifications: %w", err)
	}
	if err := json.Unmarshal(faqs, &p.FAQs); err != nil {
		return nil, fmt.Errorf("unmarshal faqs: %w", err)
	}

	return &p, nil
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyPrices(s []domain.Price) []domain.Price {
	if s == nil {
		return []domain.Price{}
	}
	return s
}

func orEmptySpecs(s []domain.Specification) []domain.Specification {
	if s == nil {
		return []domain.Specification{}
	}
	return s
}

func orEmptyFAQs(s []domain.FAQ) []domain.FAQ {
	if s == nil {
		return []domain.FAQ{}
	}
	return s
}
