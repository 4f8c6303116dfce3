package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sitegrid-app/sitegrid-backend/pkg/date"
	"github.com/sitegrid-app/sitegrid-backend/pkg/email"
	"github.com/sitegrid-app/sitegrid-backend/pkg/locking"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"github.com/sitegrid-app/sitegrid-backend/pkg/users"
)

// progressLockTTL bounds how long a crashed instance can keep a task's ledger locked
const progressLockTTL = time.Second * 10

func progressLockKey(taskID string) string {
	return "task-progress:" + taskID
}

// ProgressReport is the read projection of a task's ledger
type ProgressReport struct {
	Progress      []ProgressEntry `json:"progress"`
	PlannedTarget []DailyTarget   `json:"plannedTarget"`
	Summary       ProgressSummary `json:"summary"`
}

// ProgressRecorded is the result of merging one submission into the ledger
type ProgressRecorded struct {
	Entry    *ProgressEntry  `json:"entry"`
	Progress []ProgressEntry `json:"progress"`
	Summary  ProgressSummary `json:"summary"`
}

// ProgressLedger owns the merge semantics of daily progress entries. All writes
// to a task's ledger go through RecordProgress, which serializes per task.
type ProgressLedger struct {
	TaskRepository TaskRepositoryInterface
	UserRepository users.UserRepositoryInterface
	Locker         locking.LockerInterface
	Cache          ProgressCacheInterface
	EmailService   email.Mailer
	Logger         logger.Interface
	Location       *time.Location
}

// RecordProgress merges a submission into the task's entry for the current
// calendar day, creating the entry if the day has none yet. The read-merge-write
// sequence runs under a per-task lock so concurrent submissions for the same
// day can never both take the create path.
func (l *ProgressLedger) RecordProgress(ctx context.Context, taskID string, submission *ProgressSubmission) (*ProgressRecorded, error) {
	lock, err := l.Locker.Acquire(ctx, progressLockKey(taskID), progressLockTTL)
	if err != nil {
		return nil, errors.Wrap(err, "could not acquire progress lock")
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			l.Logger.Warning("Could not release progress lock", err)
		}
	}()

	taskUpdate, err := l.TaskRepository.FindUpdatableByID(ctx, taskID, false)
	if err != nil {
		return nil, err
	}

	task := (*Task)(taskUpdate)
	achievedBefore := task.ProgressSummary().IsTargetAchieved

	now := time.Now()
	entry, _ := task.RecordDailyProgress(submission, date.DayOf(now, l.Location), now)

	err = l.TaskRepository.Update(ctx, (*TaskUpdate)(task), false)
	if err != nil {
		return nil, err
	}

	if l.Cache != nil {
		if err := l.Cache.Invalidate(ctx, taskID); err != nil {
			l.Logger.Warning("Could not invalidate progress cache", err)
		}
	}

	summary := task.ProgressSummary()
	if !achievedBefore && summary.IsTargetAchieved {
		l.notifyTargetAchieved(ctx, task, submission)
	}

	return &ProgressRecorded{
		Entry:    entry,
		Progress: task.DailyProgress,
		Summary:  summary,
	}, nil
}

// GetProgress assembles the full ledger, the derived daily target plan and the
// completion summary of a task without mutating anything. On a cache miss the
// load and fill run under the task's lock, otherwise a report built from a
// pre-write snapshot could be cached after the write already invalidated.
func (l *ProgressLedger) GetProgress(ctx context.Context, taskID string) (*ProgressReport, error) {
	if l.Cache != nil {
		if report, err := l.Cache.Get(ctx, taskID); err == nil {
			return report, nil
		}
	}

	lock, err := l.Locker.Acquire(ctx, progressLockKey(taskID), progressLockTTL)
	if err != nil {
		return nil, errors.Wrap(err, "could not acquire progress lock")
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			l.Logger.Warning("Could not release progress lock", err)
		}
	}()

	task, err := l.TaskRepository.FindByID(ctx, taskID, false)
	if err != nil {
		return nil, err
	}

	progress := task.DailyProgress
	if progress == nil {
		progress = []ProgressEntry{}
	}

	report := &ProgressReport{
		Progress:      progress,
		PlannedTarget: task.DailyBoqTargetPlan(l.Location),
		Summary:       task.ProgressSummary(),
	}

	if l.Cache != nil {
		if err := l.Cache.Add(ctx, taskID, report); err != nil {
			l.Logger.Warning("Could not cache progress report", err)
		}
	}

	return report, nil
}

func (l *ProgressLedger) notifyTargetAchieved(ctx context.Context, task *Task, submission *ProgressSubmission) {
	if l.EmailService == nil || l.UserRepository == nil {
		return
	}

	user, err := l.UserRepository.FindByID(ctx, submission.SubmittedBy.Hex())
	if err != nil {
		l.Logger.Warning("Could not resolve submitter for target achieved mail", err)
		return
	}

	err = l.EmailService.SendEmail(ctx, &email.Email{
		ReceiverName:    fmt.Sprintf("%s %s", user.Firstname, user.Lastname),
		ReceiverAddress: user.Email,
		Template:        email.TemplateTargetAchieved,
		Parameters: map[string]interface{}{
			"taskTitle": task.Title,
			"boqTarget": task.BoqQuantityTarget,
			"boqUnit":   string(task.UnitOfMeasure),
		},
	})
	if err != nil {
		l.Logger.Warning("Could not send target achieved mail", err)
	}
}
