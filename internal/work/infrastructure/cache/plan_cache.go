// Package cache fronts the plan store with Redis. Plans never change once
// stored, so entries are written with SETNX and only expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/pkg/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "atelier:plan:"

// DefaultTTL keeps a plan around for the rest of its day and a bit beyond.
const DefaultTTL = 36 * time.Hour

type cachedPlan struct {
	ID        uuid.UUID    `json:"id"`
	Date      vo.Date      `json:"date"`
	Theme     vo.Weekday   `json:"theme"`
	Entries   []plan.Entry `json:"entries"`
	CreatedAt time.Time    `json:"created_at"`
}

// PlanCache implements plan.Repository on top of another repository.
// Redis failures are logged and the call falls through to next.
type PlanCache struct {
	next    plan.Repository
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewPlanCache wraps next. A non-positive ttl uses DefaultTTL.
func NewPlanCache(next plan.Repository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanCache{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics records hits and misses on m.
func (c *PlanCache) WithMetrics(m observability.Metrics) *PlanCache {
	if m != nil {
		c.metrics = m
	}
	return c
}

// Key returns the redis key holding the plan for date.
func Key(date vo.Date) string {
	return keyPrefix + date.String()
}

func (c *PlanCache) FindByDate(ctx context.Context, date vo.Date) (*plan.DailyPlan, error) {
	if p, ok := c.get(ctx, date); ok {
		c.metrics.Counter(observability.MetricPlanCacheHit, 1)
		return p, nil
	}
	c.metrics.Counter(observability.MetricPlanCacheMiss, 1)

	p, err := c.next.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	c.put(ctx, p)
	return p, nil
}

// CreateIfAbsent goes straight to next. It usually runs inside a
// transaction that may still roll back, so the cache is filled by the
// next FindByDate instead.
func (c *PlanCache) CreateIfAbsent(ctx context.Context, p *plan.DailyPlan) (*plan.DailyPlan, bool, error) {
	return c.next.CreateIfAbsent(ctx, p)
}

// Invalidate drops the cached plan for date.
func (c *PlanCache) Invalidate(ctx context.Context, date vo.Date) error {
	return c.client.Del(ctx, Key(date)).Err()
}

func (c *PlanCache) get(ctx context.Context, date vo.Date) (*plan.DailyPlan, bool) {
	raw, err := c.client.Get(ctx, Key(date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "plan cache read failed", "date", date.String(), "error", err)
		}
		return nil, false
	}

	var cp cachedPlan
	if err := json.Unmarshal(raw, &cp); err != nil {
		c.logger.WarnContext(ctx, "dropping undecodable cached plan", "date", date.String(), "error", err)
		_ = c.client.Del(ctx, Key(date)).Err()
		return nil, false
	}
	return plan.Rehydrate(cp.ID, cp.Date, cp.Theme, cp.Entries, cp.CreatedAt), true
}

func (c *PlanCache) put(ctx context.Context, p *plan.DailyPlan) {
	raw, err := json.Marshal(cachedPlan{
		ID:        p.ID(),
		Date:      p.Date(),
		Theme:     p.Theme(),
		Entries:   p.Entries(),
		CreatedAt: p.CreatedAt(),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode plan for cache", "date", p.Date().String(), "error", err)
		return
	}
	if err := c.client.SetNX(ctx, Key(p.Date()), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "plan cache write failed", "date", p.Date().String(), "error", err)
	}
}

var _ plan.Repository = (*PlanCache)(nil)
