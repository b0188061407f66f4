package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/database"
	apperrors "github.com/ataullahmesbah/sooqra-one-sub002/pkg/errors"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/predicate"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var storedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "title", "description", "short_description", "brand", "product_code",
	"category_id", "category_name", "category_slug", "prices", "quantity", "availability",
	"rating_value", "rating_count", "is_global", "target_country", "target_city",
	"keywords", "sizes", "specifications", "faqs", "created_at", "updated_at",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:               "prod-1",
		Title:            "Panjabi Collection 2025",
		Description:      "Festive cotton panjabi",
		ShortDescription: "Cotton panjabi",
		Brand:            "StyleCo",
		ProductCode:      "PNJ-2025",
		Category:         domain.CategoryRef{ID: "cat-1", Name: "Ethnic Wear", Slug: "ethnic-wear"},
		Prices:           []domain.Price{{Currency: domain.BDT, Amount: 1500}},
		Quantity:         10,
		Availability:     domain.AvailabilityInStock,
		Rating:           domain.Rating{Value: 4.5, Count: 12},
		Keywords:         []string{"panjabi", "eid"},
		Sizes:            []string{"M", "L"},
		Specifications:   []domain.Specification{{Name: "Fabric", Value: "Cotton"}},
		FAQs:             []domain.FAQ{{Question: "Is it washable?", Answer: "Yes, cold wash."}},
		CreatedAt:        storedAt,
		UpdatedAt:        storedAt,
	}
}

func productRow(p domain.Product) []any {
	prices, _ := json.Marshal(p.Prices)
	specs, _ := json.Marshal(p.Specifications)
	faqs, _ := json.Marshal(p.FAQs)
	return []any{
		p.ID, p.Title, p.Description, p.ShortDescription, p.Brand, p.ProductCode,
		p.Category.ID, p.Category.Name, p.Category.Slug, prices, p.Quantity, string(p.Availability),
		p.Rating.Value, p.Rating.Count, p.IsGlobal, p.TargetCountry, p.TargetCity,
		p.Keywords, p.Sizes, specs, faqs, p.CreatedAt, p.UpdatedAt,
	}
}

func textPredicate(tokens ...string) *predicate.Predicate {
	return &predicate.Predicate{
		Text: &predicate.TextClause{Tokens: tokens, Fields: predicate.TextFields()},
	}
}

func TestStore_Find_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	p := sampleProduct()
	mock.ExpectQuery(`FROM products WHERE .+ ORDER BY created_at DESC, id LIMIT \$2 OFFSET \$3`).
		WithArgs("%panjabi%", 12, 0).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	products, err := store.Find(context.Background(), textPredicate("panjabi"), 0, 12)
	require.NoError(t, err)
	require.Len(t, products, 1)

	got := products[0]
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Category, got.Category)
	assert.Equal(t, p.Prices, got.Prices)
	assert.Equal(t, p.Availability, got.Availability)
	assert.Equal(t, p.Specifications, got.Specifications)
	assert.Equal(t, p.FAQs, got.FAQs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Find_NoPredicate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectQuery(`FROM products ORDER BY created_at DESC, id LIMIT \$1 OFFSET \$2`).
		WithArgs(12, 24).
		WillReturnRows(pgxmock.NewRows(productCols))

	products, err := store.Find(context.Background(), &predicate.Predicate{}, 24, 12)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Find_QueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectQuery(`FROM products`).
		WillReturnError(errors.New("connection refused"))

	_, err := store.Find(context.Background(), textPredicate("shirt"), 0, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Count(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE`).
		WithArgs("%panjabi%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := store.Count(context.Background(), textPredicate("panjabi"))
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Upsert_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	p := sampleProduct()
	prices, _ := json.Marshal(p.Prices)
	specs, _ := json.Marshal(p.Specifications)
	faqs, _ := json.Marshal(p.FAQs)

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Title, p.Description, p.ShortDescription, p.Brand, p.ProductCode,
			p.Category.ID, p.Category.Name, p.Category.Slug, prices, p.Quantity, string(p.Availability),
			p.Rating.Value, p.Rating.Count, p.IsGlobal, p.TargetCountry, p.TargetCity,
			p.Keywords, p.Sizes, specs, faqs, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Upsert(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Upsert_NilSlicesStoredAsEmpty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	p := sampleProduct()
	p.Prices = nil
	p.Keywords = nil
	p.Sizes = nil
	p.Specifications = nil
	p.FAQs = nil

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Title, p.Description, p.ShortDescription, p.Brand, p.ProductCode,
			p.Category.ID, p.Category.Name, p.Category.Slug, []byte("[]"), p.Quantity, string(p.Availability),
			p.Rating.Value, p.Rating.Count, p.IsGlobal, p.TargetCountry, p.TargetCity,
			[]string{}, []string{}, []byte("[]"), []byte("[]"), p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Upsert(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpsertBatch_StopsOnError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	first := sampleProduct()
	second := sampleProduct()
	second.ID = "prod-2"

	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO products").
		WillReturnError(errors.New("deadlock detected"))

	err := store.UpsertBatch(context.Background(), []domain.Product{first, second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prod-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectExec("DELETE FROM products WHERE id").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := store.Delete(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ResolveCategory_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectQuery(`SELECT DISTINCT category_id, category_name, category_slug`).
		WithArgs("ethnic-wear").
		WillReturnRows(
			pgxmock.NewRows([]string{"category_id", "category_name", "category_slug"}).
				AddRow("cat-1", "Ethnic Wear", "ethnic-wear"),
		)

	ref, err := store.ResolveCategory(context.Background(), "ethnic-wear")
	require.NoError(t, err)
	assert.Equal(t, &domain.CategoryRef{ID: "cat-1", Name: "Ethnic Wear", Slug: "ethnic-wear"}, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ResolveCategory_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectQuery(`SELECT DISTINCT category_id, category_name, category_slug`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.ResolveCategory(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
