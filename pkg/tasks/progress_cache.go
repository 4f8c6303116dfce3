package tasks

import "context"

// ProgressCacheInterface caches assembled progress reports per task, entries
// are invalidated whenever the task's ledger changes
type ProgressCacheInterface interface {
	Add(ctx context.Context, taskID string, report *ProgressReport) error
	Invalidate(ctx context.Context, taskID string) error
	Get(ctx context.Context, taskID string) (*ProgressReport, error)
}
