package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
	pkgkafka "github.com/ataullahmesbah/sooqra-one-sub002/pkg/kafka"
)

// Product domain topics this service subscribes to.
const (
	TopicProductCreated = "sooqra.product.created"
	TopicProductUpdated = "sooqra.product.updated"
	TopicProductDeleted = "sooqra.product.deleted"
)

// Topics lists every subscription the consumer needs.
func Topics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}
}

// CatalogWriter is the slice of the search service the consumer needs to
// keep the read model in sync.
type CatalogWriter interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
	RemoveProduct(ctx context.Context, id string) error
}

// deletedPayload is the body of a product.deleted event.
type deletedPayload struct {
	ID string `json:"id"`
}

// Consumer applies product lifecycle events to the catalog read model.
type Consumer struct {
	catalog CatalogWriter
	logger  *slog.Logger
}

func NewConsumer(catalog CatalogWriter, logger *slog.Logger) *Consumer {
	return &Consumer{catalog: catalog, logger: logger}
}

// Handle dispatches one event by type. Unknown types are logged and
// acknowledged so they do not block the partition.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return c.handleProductUpsert(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleProductUpsert(ctx context.Context, event *pkgkafka.Event) error {
	var product domain.Product
	if err := json.Unmarshal(event.Data, &product); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}
	if product.ID == "" {
		return fmt.Errorf("%s event %s carries no product id", event.EventType, event.EventID)
	}

	if err := c.catalog.UpsertProduct(ctx, product); err != nil {
		return fmt.Errorf("upsert product from %s: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "product projected from event",
		slog.String("product_id", product.ID),
		slog.String("event_type", event.EventType),
	)
	return nil
}

func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var payload deletedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}
	if payload.ID == "" {
		return fmt.Errorf("product.deleted event %s carries no product id", event.EventID)
	}

	if err := c.catalog.RemoveProduct(ctx, payload.ID); err != nil {
		return fmt.Errorf("remove product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "product removed from read model",
		slog.String("product_id", payload.ID),
	)
	return nil
}
