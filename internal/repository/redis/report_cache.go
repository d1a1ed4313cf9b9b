package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reportCachePrefix = "report:"

// ReportCache stores rendered report summaries per user.
// Entries of one user are dropped together whenever their sales or stock change.
type ReportCache struct {
	client *Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func reportKey(userID int64, key string) string {
	return fmt.Sprintf("%s%d:%s", reportCachePrefix, userID, key)
}

// Get decodes the cached value into dest. A miss returns false without error.
func (c *ReportCache) Get(ctx context.Context, userID int64, key string, dest any) (bool, error) {
	data, err := c.client.rdb.Get(ctx, reportKey(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read report cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return true, nil
}

// Set caches value for the configured TTL
func (c *ReportCache) Set(ctx context.Context, userID int64, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return c.client.rdb.Set(ctx, reportKey(userID, key), data, c.ttl).Err()
}

// InvalidateUser removes every cached report of the user
func (c *ReportCache) InvalidateUser(ctx context.Context, userID int64) error {
	_, err := c.client.deleteByPattern(ctx, fmt.Sprintf("%s%d:*", reportCachePrefix, userID))
	return err
}

// FlushAll removes all cached reports
func (c *ReportCache) FlushAll(ctx context.Context) (int64, error) {
	return c.client.deleteByPattern(ctx, reportCachePrefix+"*")
}
