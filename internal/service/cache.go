package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const suggestKeyPrefix = "search:suggest:"

// SuggestionCache keeps synthesized suggestion lists in Redis for a short
// TTL. All failures degrade to a cache miss; the cache never fails a
// request.
type SuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSuggestionCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SuggestionCache {
	return &SuggestionCache{client: client, ttl: ttl, logger: logger}
}

func suggestKey(query string) string {
	return suggestKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

// Get returns the cached suggestions for a query, if any.
func (c *SuggestionCache) Get(ctx context.Context, query string) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, suggestKey(query)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "suggestion cache read failed",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var suggestions []string
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		return nil, false
	}
	return suggestions, true
}

// Set stores suggestions for a query. Errors are logged, not returned.
func (c *SuggestionCache) Set(ctx context.Context, query string, suggestions []string) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, suggestKey(query), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "suggestion cache write failed",
			slog.String("error", err.Error()),
		)
	}
}
