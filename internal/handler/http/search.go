package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/logger"
)

// SearchHandler serves the public search endpoints.
type SearchHandler struct {
	service SearchService
	logger  *slog.Logger
}

func NewSearchHandler(service SearchService, log *slog.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: log}
}

// Search handles GET /api/v1/search.
//
// Query parameters: q, page, limit, category, sort, minPrice, maxPrice,
// availability. Missing or non-numeric page/limit fall back to defaults;
// malformed price bounds are rejected with a 400; an unknown sort silently
// becomes relevance.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := domain.SearchRequest{
		Query:        q.Get("q"),
		Page:         intParam(q.Get("page")),
		Limit:        intParam(q.Get("limit")),
		Category:     strings.TrimSpace(q.Get("category")),
		Sort:         q.Get("sort"),
		Availability: strings.TrimSpace(q.Get("availability")),
	}

	minPrice, ok := priceParam(q.Get("minPrice"))
	if !ok {
		h.writeSearchJSON(r, w, http.StatusBadRequest, domain.FailureResponse("minPrice must be a non-negative number"))
		return
	}
	maxPrice, ok := priceParam(q.Get("maxPrice"))
	if !ok {
		h.writeSearchJSON(r, w, http.StatusBadRequest, domain.FailureResponse("maxPrice must be a non-negative number"))
		return
	}
	req.MinPrice = minPrice
	req.MaxPrice = maxPrice

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.writeSearchJSON(r, w, http.StatusInternalServerError, resp)
		return
	}
	h.writeSearchJSON(r, w, http.StatusOK, resp)
}

// Suggest handles GET /api/v1/search/suggest.
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "suggest failed",
			slog.String("error", err.Error()))
		h.writeSearchJSON(r, w, http.StatusInternalServerError, domain.FailureResponse("suggestions are temporarily unavailable"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"suggestions": suggestions,
	}); err != nil {
		h.logger.Error("encode suggest response failed", slog.String("error", err.Error()))
	}
}

func (h *SearchHandler) writeSearchJSON(r *http.Request, w http.ResponseWriter, status int, resp *domain.SearchResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.FromContext(r.Context()).Error("encode search response failed",
			slog.String("error", err.Error()))
	}
}

// intParam parses a positive integer, returning 0 (meaning "use the
// default") for anything absent or malformed.
func intParam(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// priceParam parses an optional non-negative price bound. The second
// return is false when the value is present but unusable.
func priceParam(raw string) (*float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}
