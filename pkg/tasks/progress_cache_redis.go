package tasks

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

// ProgressCacheRedis caches progress reports in Redis so all instances share them
type ProgressCacheRedis struct {
	Cache *cache.Cache
}

// NewProgressCacheRedis initializes a new ProgressCacheRedis
func NewProgressCacheRedis(redisClient *redis.Client) *ProgressCacheRedis {
	redisCache := cache.New(&cache.Options{
		Redis: redisClient,
	})

	return &ProgressCacheRedis{
		Cache: redisCache,
	}
}

func progressCacheKey(taskID string) string {
	return "progress-report:" + taskID
}

// Add adds a progress report to the cache
func (c *ProgressCacheRedis) Add(ctx context.Context, taskID string, report *ProgressReport) error {
	return c.Cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   progressCacheKey(taskID),
		Value: report,
		TTL:   time.Minute * 5,
	})
}

// Invalidate removes a progress report from the cache
func (c *ProgressCacheRedis) Invalidate(ctx context.Context, taskID string) error {
	return c.Cache.Delete(ctx, progressCacheKey(taskID))
}

// Get retrieves a progress report from the cache
func (c *ProgressCacheRedis) Get(ctx context.Context, taskID string) (*ProgressReport, error) {
	report := ProgressReport{}

	err := c.Cache.Get(ctx, progressCacheKey(taskID), &report)
	if err != nil {
		return nil, err
	}

	return &report, nil
}
