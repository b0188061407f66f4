package domain

import (
	"time"
)

// BDT is the settlement currency for storefront pricing. Price filters and
// price sorting operate on the BDT entry of a product's price list.
const BDT = "BDT"

// Availability describes the stock state of a product.
type Availability string

const (
	AvailabilityInStock    Availability = "in-stock"
	AvailabilityOutOfStock Availability = "out-of-stock"
	AvailabilityPreOrder   Availability = "pre-order"
)

// Price is a single currency/amount entry on a product's price list.
type Price struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// CategoryRef is the denormalized category a product belongs to.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Rating is the aggregate review rating of a product.
type Rating struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Specification is a single name/value spec row (e.g. "Fabric" / "Cotton").
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FAQ is a merchant-authored question/answer pair attached to a product.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Product is the denormalized catalog read model a search request runs
// against. It is owned by the catalog service; this service only upserts
// projections of it from product events and the admin API.
type Product struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	Brand            string          `json:"brand"`
	ProductCode      string          `json:"product_code"`
	Category         CategoryRef     `json:"category"`
	Prices           []Price         `json:"prices"`
	Quantity         int             `json:"quantity"`
	Availability     Availability    `json:"availability"`
	Rating           Rating          `json:"rating"`
	IsGlobal         bool            `json:"is_global"`
	TargetCountry    string          `json:"target_country,omitempty"`
	TargetCity       string          `json:"target_city,omitempty"`
	Keywords         []string        `json:"keywords"`
	Sizes            []string        `json:"sizes"`
	Specifications   []Specification `json:"specifications"`
	FAQs             []FAQ           `json:"faqs"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PriceBDT returns the first BDT amount on the price list, or 0 when the
// product carries no BDT price. Price sorting treats a missing entry as 0.
func (p *Product) PriceBDT() float64 {
	for _, pr := range p.Prices {
		if pr.Currency == BDT {
			return pr.Amount
		}
	}
	return 0
}

// ScoredProduct pairs a candidate with its relevance score for one request.
type ScoredProduct struct {
	Product Product
	Score   int
}
