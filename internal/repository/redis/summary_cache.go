package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	redisadapter "costwatch/internal/adapters/redis"
	"costwatch/internal/domain/opportunity"
	"costwatch/pkg/errors"
)

const summarySnapshotKey = "costwatch:summary:simple"

// Compile-time check
var _ opportunity.SnapshotCache = (*SummaryCache)(nil)

// SummaryCache stores the simple summary rollup in Redis with a TTL. The
// TTL bounds how far the cached rollup may lag behind ingestion.
type SummaryCache struct {
	client *redisadapter.Client
	ttl    time.Duration
}

// NewSummaryCache creates a new snapshot cache
func NewSummaryCache(client *redisadapter.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// GetSummarySnapshot returns the cached rollup, or ErrCacheMiss when the
// key is absent or expired
func (c *SummaryCache) GetSummarySnapshot(ctx context.Context) (*opportunity.Summary, error) {
	var summary opportunity.Summary
	if err := c.client.Get(ctx, summarySnapshotKey, &summary); err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errors.ErrCacheMiss
		}
		return nil, errors.Wrap(err, "failed to read summary snapshot")
	}
	return &summary, nil
}

// SetSummarySnapshot stores a freshly computed rollup
func (c *SummaryCache) SetSummarySnapshot(ctx context.Context, summary *opportunity.Summary) error {
	if err := c.client.Set(ctx, summarySnapshotKey, summary, c.ttl); err != nil {
		return errors.Wrap(err, "failed to write summary snapshot")
	}
	return nil
}
