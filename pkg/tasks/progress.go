package tasks

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/sitegrid-app/sitegrid-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoLocation is the position a progress submission was made from
type GeoLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// ProgressEntry is one calendar day's accumulated work-done record of a task.
// There is at most one entry per calendar day, repeated submissions on the
// same day are merged into the existing entry.
type ProgressEntry struct {
	Date                time.Time          `json:"date" bson:"date"`
	Timestamp           time.Time          `json:"timestamp" bson:"timestamp"`
	BoqQuantityDone     float64            `json:"boqQuantityDone" bson:"boqQuantityDone"`
	BoqUnit             UnitOfMeasure      `json:"boqUnit" bson:"boqUnit"`
	PercentageCompleted float64            `json:"percentageCompleted" bson:"percentageCompleted"`
	Remarks             string             `json:"remarks" bson:"remarks"`
	ImageURL            []string           `json:"imageUrl" bson:"imageUrl"`
	Location            *GeoLocation       `json:"location,omitempty" bson:"location,omitempty"`
	SubmittedBy         primitive.ObjectID `json:"submittedBy" bson:"submittedBy"`

	// SubmissionIDs remembers the idempotency tokens already merged into this day
	SubmissionIDs []string `json:"-" bson:"submissionIds,omitempty"`
}

// ProgressSubmission is one submission of work done, to be merged into the ledger
type ProgressSubmission struct {
	QuantityDone float64
	Remarks      string
	ImageURLs    []string
	Location     *GeoLocation
	SubmittedBy  primitive.ObjectID
	SubmissionID string
}

// DailyTarget is one day of the derived target plan
type DailyTarget struct {
	Date   string  `json:"date"`
	Target float64 `json:"target"`
}

// ProgressSummary is the aggregate completion state of a task
type ProgressSummary struct {
	BoqTarget        float64 `json:"boqTarget"`
	TotalAchieved    float64 `json:"totalAchieved"`
	Remaining        float64 `json:"remaining"`
	IsTargetAchieved bool    `json:"isTargetAchieved"`
}

// Round2 rounds to two decimal places
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// CompletionPercentage computes the cumulative completion against a target,
// clamped to 100 and rounded to two decimal places. A target of zero does
// not divide: anything done counts as 100, nothing done as 0.
func CompletionPercentage(totalAchieved float64, target float64) float64 {
	if target <= 0 {
		if totalAchieved > 0 {
			return 100
		}
		return 0
	}

	return Round2(math.Min(100, totalAchieved/target*100))
}

// CoerceQuantity turns a loosely typed quantity value into a usable number.
// Negative, non-finite and non-numeric values all become 0, matching the
// lenient intake the mobile clients rely on.
func CoerceQuantity(value interface{}) float64 {
	var quantity float64

	switch v := value.(type) {
	case float64:
		quantity = v
	case json.Number:
		quantity, _ = v.Float64()
	case string:
		quantity, _ = strconv.ParseFloat(v, 64)
	case int:
		quantity = float64(v)
	default:
		return 0
	}

	if quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0
	}

	return quantity
}

// RecordDailyProgress merges a submission into the progress ledger for the given
// calendar day: the first submission of a day creates the entry, every further
// one accumulates quantity, appends images and overwrites remarks and location.
// A submission whose idempotency token was already merged is a no-op.
// Returns the affected entry and whether it was newly created.
func (t *Task) RecordDailyProgress(submission *ProgressSubmission, day time.Time, now time.Time) (*ProgressEntry, bool) {
	quantity := submission.QuantityDone
	if quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		quantity = 0
	}

	index := -1
	for i := range t.DailyProgress {
		if t.DailyProgress[i].Date.Equal(day) {
			index = i
			break
		}
	}

	created := false
	if index >= 0 {
		entry := &t.DailyProgress[index]

		if submission.SubmissionID != "" {
			for _, id := range entry.SubmissionIDs {
				if id == submission.SubmissionID {
					return entry, false
				}
			}
		}

		entry.BoqQuantityDone += quantity
		entry.ImageURL = append(entry.ImageURL, submission.ImageURLs...)
		if submission.Remarks != "" {
			entry.Remarks = submission.Remarks
		}
		if submission.Location != nil {
			entry.Location = submission.Location
		}
		if submission.SubmissionID != "" {
			entry.SubmissionIDs = append(entry.SubmissionIDs, submission.SubmissionID)
		}
		entry.Timestamp = now
	} else {
		entry := ProgressEntry{
			Date:            day,
			Timestamp:       now,
			BoqQuantityDone: quantity,
			BoqUnit:         t.UnitOfMeasure,
			Remarks:         submission.Remarks,
			ImageURL:        submission.ImageURLs,
			Location:        submission.Location,
			SubmittedBy:     submission.SubmittedBy,
		}
		if submission.SubmissionID != "" {
			entry.SubmissionIDs = []string{submission.SubmissionID}
		}

		t.DailyProgress = append(t.DailyProgress, entry)
		index = len(t.DailyProgress) - 1
		created = true
	}

	t.DailyProgress[index].PercentageCompleted = CompletionPercentage(t.TotalBoqDone(), t.BoqQuantityTarget)

	return &t.DailyProgress[index], created
}

// DailyBoqTargetPlan derives the evenly distributed per-day target schedule
// from the task's execution window. The plan is informational only and never
// persisted. An incomplete or inverted window yields an empty plan.
func (t *Task) DailyBoqTargetPlan(location *time.Location) []DailyTarget {
	plan := []DailyTarget{}

	if t.StartDate.IsZero() || t.ExpectedEndDate.IsZero() || t.BoqQuantityTarget <= 0 {
		return plan
	}

	days := date.DaysInclusive(t.StartDate, t.ExpectedEndDate, location)
	if days <= 0 {
		return plan
	}

	dailyTarget := Round2(t.BoqQuantityTarget / float64(days))

	date.EachDay(t.StartDate, t.ExpectedEndDate, location, func(day time.Time) {
		plan = append(plan, DailyTarget{
			Date:   day.Format("2006-01-02"),
			Target: dailyTarget,
		})
	})

	return plan
}

// ProgressSummary computes the aggregate completion state of the task
func (t *Task) ProgressSummary() ProgressSummary {
	totalAchieved := t.TotalBoqDone()

	return ProgressSummary{
		BoqTarget:        t.BoqQuantityTarget,
		TotalAchieved:    totalAchieved,
		Remaining:        math.Max(0, t.BoqQuantityTarget-totalAchieved),
		IsTargetAchieved: totalAchieved >= t.BoqQuantityTarget,
	}
}
