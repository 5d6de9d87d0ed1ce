package marketcache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/prathibha999-pd/realvalueAI/internal/redisx"
	"github.com/prathibha999-pd/realvalueAI/internal/session"
	"github.com/prathibha999-pd/realvalueAI/valuation"
)

// Cached decorates a session backend with a short-TTL Redis cache for
// market-insights responses. Every input edit re-fires the same query shape,
// often with an identical tuple (typing square footage digit by digit), so a
// small cache absorbs most of the aggregate recomputation upstream. Form
// options and predictions pass through untouched.
type Cached struct {
	next  session.Backend
	redis *redisx.Client
	ttl   time.Duration
}

func New(next session.Backend, redis *redisx.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{next: next, redis: redis, ttl: ttl}
}

func (c *Cached) FormOptions(ctx context.Context) (*valuation.FormOptions, error) {
	return c.next.FormOptions(ctx)
}

func (c *Cached) Predict(ctx context.Context, req valuation.PredictRequest) (*valuation.Prediction, error) {
	return c.next.Predict(ctx, req)
}

func (c *Cached) MarketInsights(ctx context.Context, q valuation.MarketQuery) (*valuation.MarketInsights, error) {
	key := Key(q)
	if val, err := c.redis.Get(ctx, key); err == nil && val != "" {
		var cached valuation.MarketInsights
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return &cached, nil
		}
	}

	res, err := c.next.MarketInsights(ctx, q)
	if err != nil {
		return nil, err
	}
	// Empty results are cached too: "no data" is a valid answer and just as
	// expensive to recompute.
	if b, err := json.Marshal(res); err == nil {
		if err := c.redis.Set(ctx, key, string(b), c.ttl); err != nil {
			log.Printf("[WARN] market cache write failed for %s: %v", key, err)
		}
	}
	return res, nil
}

// Key canonicalizes a query tuple into a cache key.
func Key(q valuation.MarketQuery) string {
	parts := []string{q.Status, q.Location, q.Sqft, q.PropertyType}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return "mkt:v1:" + strings.Join(parts, "|")
}
