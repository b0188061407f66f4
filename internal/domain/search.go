package domain

// Sort modes for search results.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortRating    = "rating"
)

// NormalizeSort maps unknown sort values to the relevance default. The
// public endpoint is forgiving about its query parameters, so an
// unrecognized sort does not error.
func NormalizeSort(sort string) string {
	switch sort {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest, SortRating:
		return sort
	default:
		return SortRelevance
	}
}

// Default pagination values applied when the request carries none.
const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// SearchRequest holds all parameters of one search, after query-string
// parsing and defaulting.
type SearchRequest struct {
	Query        string   `json:"query"`
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
	Category     string   `json:"category,omitempty"`
	Sort         string   `json:"sort"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Availability string   `json:"availability,omitempty"`
}

// ApplyDefaults normalizes pagination and sort in place. Missing or
// non-positive page/limit default silently rather than erroring.
func (r *SearchRequest) ApplyDefaults() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	r.Sort = NormalizeSort(r.Sort)
}

// Offset returns the store-side skip for the requested page.
func (r *SearchRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Pagination is the bookkeeping block of a search response.
type Pagination struct {
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// SearchResult is the externally-shaped projection of a Product. Optional
// fields are defaulted here so the response never carries nulls.
type SearchResult struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	Brand            string          `json:"brand"`
	ProductCode      string          `json:"productCode"`
	Category         CategoryRef     `json:"category"`
	Prices           []Price         `json:"prices"`
	Quantity         int             `json:"quantity"`
	Availability     Availability    `json:"availability"`
	Rating           Rating          `json:"rating"`
	IsGlobal         bool            `json:"isGlobal"`
	TargetCountry    string          `json:"targetCountry,omitempty"`
	TargetCity       string          `json:"targetCity,omitempty"`
	Keywords         []string        `json:"keywords"`
	Sizes            []string        `json:"sizes"`
	Specifications   []Specification `json:"specifications"`
	FAQs             []FAQ           `json:"faqs"`
	CreatedAt        string          `json:"createdAt"`
}

// NewSearchResult projects a Product into the response shape, defaulting
// the ambiguous fields: a missing category becomes "Uncategorized", a
// missing price list becomes empty, a missing rating stays zero-valued.
func NewSearchResult(p Product) SearchResult {
	cat := p.Category
	if cat.Name == "" {
		cat.Name = "Uncategorized"
	}
	if cat.Slug == "" {
		cat.Slug = "uncategorized"
	}

	prices := p.Prices
	if prices == nil {
		prices = []Price{}
	}
	keywords := p.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	specs := p.Specifications
	if specs == nil {
		specs = []Specification{}
	}
	faqs := p.FAQs
	if faqs == nil {
		faqs = []FAQ{}
	}

	return SearchResult{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Brand:            p.Brand,
		ProductCode:      p.ProductCode,
		Category:         cat,
		Prices:           prices,
		Quantity:         p.Quantity,
		Availability:     p.Availability,
		Rating:           p.Rating,
		IsGlobal:         p.IsGlobal,
		TargetCountry:    p.TargetCountry,
		TargetCity:       p.TargetCity,
		Keywords:         keywords,
		Sizes:            sizes,
		Specifications:   specs,
		FAQs:             faqs,
		CreatedAt:        p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// SearchResponse is the public response envelope for the search endpoint.
type SearchResponse struct {
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Data        []SearchResult `json:"data"`
	Pagination  Pagination     `json:"pagination"`
	Suggestions []string       `json:"suggestions"`
	SearchTerms []string       `json:"searchTerms,omitempty"`
}

// EmptySearchResponse is the well-formed zero-result response returned for
// blank searches without touching the store.
func EmptySearchResponse(page, limit int) *SearchResponse {
	return &SearchResponse{
		Success:     true,
		Data:        []SearchResult{},
		Pagination:  Pagination{Page: page, Limit: limit},
		Suggestions: []string{},
		SearchTerms: []string{},
	}
}

// FailureResponse is the single failure shape every error path collapses
// into. Raw errors never cross the service boundary.
func FailureResponse(message string) *SearchResponse {
	return &SearchResponse{
		Success:     false,
		Error:       message,
		Data:        []SearchResult{},
		Pagination:  Pagination{Page: DefaultPage, Limit: DefaultLimit},
		Suggestions: []string{},
	}
}
