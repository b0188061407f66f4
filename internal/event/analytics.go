package event

import (
	"context"
	"log/slog"

	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/logger"

	pkgkafka "github.com/ataullahmesbah/sooqra-one-sub002/pkg/kafka"
)

// TopicSearchPerformed carries search analytics events.
const TopicSearchPerformed = "sooqra.search.performed"

// SearchPerformed is the analytics payload published after each search.
type SearchPerformed struct {
	Query        string `json:"query"`
	Category     string `json:"category,omitempty"`
	Sort         string `json:"sort"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	TotalResults int    `json:"total_results"`
	DurationMs   int64  `json:"duration_ms"`
}

// Publisher emits search analytics to the bus. Publish failures are logged
// and swallowed; analytics must never fail a search request.
type Publisher struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

func NewPublisher(producer *pkgkafka.Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

// SearchPerformed publishes one analytics event, keyed by the query text.
func (p *Publisher) SearchPerformed(ctx context.Context, payload SearchPerformed) {
	if p == nil || p.producer == nil {
		return
	}

	event, err := pkgkafka.NewEvent(TopicSearchPerformed, payload.Query, "search", "search-service", payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "build search analytics event failed",
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, TopicSearchPerformed, event); err != nil {
		p.logger.WarnContext(ctx, "publish search analytics failed",
			slog.String("error", err.Error()),
		)
	}
}
