package tasks

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// ProgressCacheMemory caches progress reports in process memory
type ProgressCacheMemory struct {
	Cache *lru.Cache
}

// NewProgressCacheMemory initializes a new ProgressCacheMemory
func NewProgressCacheMemory() (*ProgressCacheMemory, error) {
	cache, err := lru.New(256)
	if err != nil {
		return nil, err
	}

	return &ProgressCacheMemory{
		Cache: cache,
	}, nil
}

// Add adds a progress report to the cache
func (c *ProgressCacheMemory) Add(_ context.Context, taskID string, report *ProgressReport) error {
	_ = c.Cache.Add(taskID, report)
	return nil
}

// Invalidate removes a progress report from the cache
func (c *ProgressCacheMemory) Invalidate(_ context.Context, taskID string) error {
	c.Cache.Remove(taskID)
	return nil
}

// Get retrieves a progress report from the cache
func (c *ProgressCacheMemory) Get(_ context.Context, taskID string) (*ProgressReport, error) {
	result, ok := c.Cache.Get(taskID)
	if !ok {
		return nil, fmt.Errorf("could not find task %s in progress cache", taskID)
	}

	report, ok := result.(*ProgressReport)
	if !ok {
		return nil, fmt.Errorf("cache entry was not a progress report")
	}

	return report, nil
}
