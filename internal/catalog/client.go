package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/httpclient"
)

// exportPageSize is the page size used when pulling the full catalog.
const exportPageSize = 200

// exportResponse is the catalog service's product export envelope.
type exportResponse struct {
	Data       []domain.Product `json:"data"`
	Pagination struct {
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// Client pulls product documents from the catalog service over HTTP. Calls
// go through a circuit breaker so a struggling catalog service cannot be
// hammered by repeated reindex attempts.
type Client struct {
	http    *httpclient.BreakerClient
	baseURL string
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	inner := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewBreakerClient(inner, httpclient.DefaultBreakerConfig("catalog-service"), logger)
	return &Client{
		http:    breaker,
		baseURL: baseURL,
		logger:  logger,
	}
}

// FetchAll pages through the catalog export endpoint and returns every
// product document.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product

	page := 1
	for {
		batch, totalPages, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)

		if page >= totalPages || len(batch) == 0 {
			break
		}
		page++
	}

	return products, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]domain.Product, int, error) {
	endpoint := fmt.Sprintf("%s/api/v1/products/export?page=%d&limit=%d",
		c.baseURL, page, exportPageSize)

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch catalog page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, httpclient.ParseResponseError(resp, "catalog-service")
	}

	var body exportResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("decode catalog page %d: %w", page, err)
	}
	return body.Data, body.Pagination.TotalPages, nil
}
