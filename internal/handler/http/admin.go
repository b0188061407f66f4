package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	apperrors "github.com/ataullahmesbah/sooqra-one-sub002/pkg/errors"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/httputil"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/validator"
)

// AdminHandler serves the internal catalog maintenance endpoints used by
// the admin dashboard and operational tooling.
type AdminHandler struct {
	service CatalogAdminService
	logger  *slog.Logger
}

func NewAdminHandler(service CatalogAdminService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: log}
}

// productPayload is the admin API's product document.
type productPayload struct {
	ID               string                 `json:"id" validate:"required"`
	Title            string                 `json:"title" validate:"required"`
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"short_description"`
	Brand            string                 `json:"brand"`
	ProductCode      string                 `json:"product_code"`
	Category         domain.CategoryRef     `json:"category"`
	Prices           []domain.Price         `json:"prices"`
	Quantity         int                    `json:"quantity" validate:"gte=0"`
	Availability     string                 `json:"availability" validate:"omitempty,oneof=in-stock out-of-stock pre-order"`
	Rating           domain.Rating          `json:"rating"`
	IsGlobal         bool                   `json:"is_global"`
	TargetCountry    string                 `json:"target_country"`
	TargetCity       string                 `json:"target_city"`
	Keywords         []string               `json:"keywords"`
	Sizes            []string               `json:"sizes"`
	Specifications   []domain.Specification `json:"specifications"`
	FAQs             []domain.FAQ           `json:"faqs"`
	CreatedAt        time.Time              `json:"created_at"`
}

func (p *productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Brand:            p.Brand,
		ProductCode:      p.ProductCode,
		Category:         p.Category,
		Prices:           p.Prices,
		Quantity:         p.Quantity,
		Availability:     domain.Availability(p.Availability),
		Rating:           p.Rating,
		IsGlobal:         p.IsGlobal,
		TargetCountry:    p.TargetCountry,
		TargetCity:       p.TargetCity,
		Keywords:         p.Keywords,
		Sizes:            p.Sizes,
		Specifications:   p.Specifications,
		FAQs:             p.FAQs,
		CreatedAt:        p.CreatedAt,
	}
}

type bulkUpsertRequest struct {
	Products []productPayload `json:"products" validate:"required,min=1,max=500,dive"`
}

// UpsertProduct handles POST /api/v1/catalog/products.
func (h *AdminHandler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("request body is not valid JSON"), h.logger)
		return
	}
	if err := validator.Validate(&payload); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.UpsertProduct(r.Context(), payload.toDomain()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id": payload.ID, "status": "indexed"},
	})
}

// BulkUpsertProducts handles POST /api/v1/catalog/products/bulk.
func (h *AdminHandler) BulkUpsertProducts(w http.ResponseWriter, r *http.Request) {
	var req bulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("request body is not valid JSON"), h.logger)
		return
	}
	if err := validator.Validate(&req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	products := make([]domain.Product, 0, len(req.Products))
	for i := range req.Products {
		products = append(products, req.Products[i].toDomain())
	}

	if err := h.service.UpsertProducts(r.Context(), products); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]int{"indexed": len(products)},
	})
}

// DeleteProduct handles DELETE /api/v1/catalog/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.RemoveProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"id": id.String(), "status": "deleted"},
	})
}

// Reindex handles POST /api/v1/search/reindex. The rebuild runs in the
// background; the response only acknowledges that it started.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.service.Reindex(ctx); err != nil {
			h.logger.Error("reindex failed", slog.String("error", err.Error()))
		}
	}()

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{
		Data: map[string]string{"status": "accepted"},
	})
}
