package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerAttempts bounds how often a handler is retried before the
// message is committed anyway. Without the bound a single poison message
// would wedge the partition forever.
const maxHandlerAttempts = 3

// Handler processes one decoded event.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds the settings for a single topic subscription.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

// Consumer reads events from one topic and feeds them to a handler with
// bounded retries. Offsets are committed explicitly after handling.
type Consumer struct {
	reader    *kafka.Reader
	handler   Handler
	logger    *slog.Logger
	closeOnce sync.Once
}

func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger,
	}
}

// Start consumes until the context is canceled. Fetch errors are logged
// and retried; they do not stop the loop.
func (c *Consumer) Start(ctx context.Context) error {
	topic := c.reader.Config().Topic
	group := c.reader.Config().GroupID
	c.logger.Info("kafka consumer started",
		slog.String("topic", topic),
		slog.String("group", group),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("kafka consumer stopping", slog.String("topic", topic))
			return c.Close()
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return c.Close()
			}
			c.logger.Error("fetch message failed", slog.String("error", err.Error()))
			continue
		}
		ConsumerMessagesReceived.WithLabelValues(topic, group).Inc()

		event, err := UnmarshalEvent(msg.Value)
		if err != nil {
			c.logger.Error("undecodable message, committing and skipping",
				slog.String("error", err.Error()),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			c.commit(ctx, msg)
			continue
		}

		if err := c.handle(ctx, event, msg); err != nil {
			ConsumerMessagesFailed.WithLabelValues(topic, group).Inc()
			c.logger.Error("handler exhausted retries, skipping poison message",
				slog.String("event_type", event.EventType),
				slog.String("aggregate_id", event.AggregateID),
				slog.String("error", err.Error()),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
		} else {
			ConsumerMessagesProcessed.WithLabelValues(topic, group).Inc()
		}
		c.commit(ctx, msg)
	}
}

// handle runs the handler with linear backoff between attempts.
func (c *Consumer) handle(ctx context.Context, event *Event, msg kafka.Message) error {
	started := time.Now()
	defer func() {
		ConsumerProcessingDuration.
			WithLabelValues(c.reader.Config().Topic, c.reader.Config().GroupID).
			Observe(time.Since(started).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= maxHandlerAttempts; attempt++ {
		lastErr = c.handler(ctx, event)
		if lastErr == nil {
			return nil
		}

		c.logger.Warn("handler failed",
			slog.String("event_type", event.EventType),
			slog.String("aggregate_id", event.AggregateID),
			slog.String("error", lastErr.Error()),
			slog.Int("attempt", attempt),
			slog.Int64("offset", msg.Offset),
		)

		if attempt < maxHandlerAttempts {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
	}
	return lastErr
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("commit failed",
			slog.String("error", err.Error()),
			slog.Int64("offset", msg.Offset),
		)
	}
}

// Close is safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
