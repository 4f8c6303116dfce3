package tasks

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func buildTestTask(target float64) *Task {
	return &Task{
		ID:                primitive.NewObjectID(),
		ProjectID:         primitive.NewObjectID(),
		Title:             "Excavation block A",
		BoqQuantityTarget: target,
		UnitOfMeasure:     UnitCubicMetre,
	}
}

func TestRecordDailyProgress_CreatesOneEntryPerDay(t *testing.T) {
	task := buildTestTask(100)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	now := day.Add(time.Hour * 9)

	_, created := task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 5}, day, now)
	if !created {
		t.Error("first submission of a day should create an entry")
	}

	_, created = task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 3}, day, now.Add(time.Hour))
	if created {
		t.Error("second submission of the same day should merge, not create")
	}

	if len(task.DailyProgress) != 1 {
		t.Errorf("expected 1 entry after two same day submissions, got %d", len(task.DailyProgress))
	}

	_, created = task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 2}, nextDay, nextDay.Add(time.Hour*8))
	if !created {
		t.Error("submission on a new day should create a new entry")
	}

	if len(task.DailyProgress) != 2 {
		t.Errorf("expected 2 entries after a submission on the next day, got %d", len(task.DailyProgress))
	}
}

func TestRecordDailyProgress_AccumulatesQuantity(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 7.5}, day, day)
	entry, _ := task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 2.5}, day, day)

	if entry.BoqQuantityDone != 10 {
		t.Errorf("expected accumulated quantity 10, got %f", entry.BoqQuantityDone)
	}
}

func TestRecordDailyProgress_AppendsImages(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 1, ImageURLs: []string{"a.jpg"}}, day, day)
	entry, _ := task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 1, ImageURLs: []string{"b.jpg"}}, day, day)

	if len(entry.ImageURL) != 2 || entry.ImageURL[0] != "a.jpg" || entry.ImageURL[1] != "b.jpg" {
		t.Errorf("expected images [a.jpg b.jpg], got %v", entry.ImageURL)
	}
}

func TestRecordDailyProgress_RemarksOverwriteOnlyWhenPresent(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 1, Remarks: "poured footing"}, day, day)

	entry, _ := task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 1}, day, day)
	if entry.Remarks != "poured footing" {
		t.Errorf("empty remarks must not clear earlier remarks, got %q", entry.Remarks)
	}

	entry, _ = task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 1, Remarks: "footing cured"}, day, day)
	if entry.Remarks != "footing cured" {
		t.Errorf("non empty remarks should overwrite, got %q", entry.Remarks)
	}
}

func TestRecordDailyProgress_LocationOverwrites(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	task.RecordDailyProgress(&ProgressSubmission{
		QuantityDone: 1,
		Location:     &GeoLocation{Latitude: 1, Longitude: 2},
	}, day, day)

	entry, _ := task.RecordDailyProgress(&ProgressSubmission{
		QuantityDone: 1,
		Location:     &GeoLocation{Latitude: 3, Longitude: 4},
	}, day, day)

	if entry.Location == nil || entry.Location.Latitude != 3 || entry.Location.Longitude != 4 {
		t.Errorf("expected location to be overwritten, got %v", entry.Location)
	}

	entry, _ = task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 1}, day, day)
	if entry.Location == nil || entry.Location.Latitude != 3 {
		t.Errorf("submission without location must keep the last one, got %v", entry.Location)
	}
}

func TestRecordDailyProgress_SubmissionIDIsIdempotent(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	submission := &ProgressSubmission{
		QuantityDone: 10,
		ImageURLs:    []string{"a.jpg"},
		SubmissionID: "6a0435a4-06ab-4fa6-b25d-54ec156bd1e5",
	}

	task.RecordDailyProgress(submission, day, day)
	entry, _ := task.RecordDailyProgress(submission, day, day)

	if entry.BoqQuantityDone != 10 {
		t.Errorf("replayed submission must not accumulate again, got %f", entry.BoqQuantityDone)
	}
	if len(entry.ImageURL) != 1 {
		t.Errorf("replayed submission must not append images again, got %v", entry.ImageURL)
	}
}

func TestRecordDailyProgress_NegativeQuantityCountsAsZero(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 10}, day, day)
	entry, _ := task.RecordDailyProgress(&ProgressSubmission{QuantityDone: -5, Remarks: "measurement redone"}, day, day)

	if entry.BoqQuantityDone != 10 {
		t.Errorf("negative quantity must not reduce the total, got %f", entry.BoqQuantityDone)
	}
	if entry.Remarks != "measurement redone" {
		t.Error("the rest of a submission with a bad quantity should still merge")
	}
}

func TestRecordDailyProgress_CompletionIsClamped(t *testing.T) {
	task := buildTestTask(100)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	entry, _ := task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 40}, day, day)
	if entry.PercentageCompleted != 40 {
		t.Errorf("expected 40 percent, got %f", entry.PercentageCompleted)
	}

	entry, _ = task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 40}, day, day)
	if entry.PercentageCompleted != 80 {
		t.Errorf("expected 80 percent, got %f", entry.PercentageCompleted)
	}

	entry, _ = task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 40}, day, day)
	if entry.PercentageCompleted != 100 {
		t.Errorf("expected completion clamped at 100, got %f", entry.PercentageCompleted)
	}
}

func TestCompletionPercentage(t *testing.T) {
	values := []struct {
		achieved float64
		target   float64
		expected float64
	}{
		{0, 100, 0},
		{33, 100, 33},
		{100, 100, 100},
		{150, 100, 100},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 0, 0},
		{5, 0, 100},
	}

	for _, v := range values {
		result := CompletionPercentage(v.achieved, v.target)
		if result != v.expected {
			t.Errorf("CompletionPercentage(%f, %f) = %f, expected %f", v.achieved, v.target, result, v.expected)
		}
	}
}

func TestCoerceQuantity(t *testing.T) {
	values := []struct {
		input    interface{}
		expected float64
	}{
		{12.5, 12.5},
		{"7.25", 7.25},
		{"not a number", 0},
		{-3.0, 0},
		{nil, 0},
		{true, 0},
		{42, 42},
	}

	for _, v := range values {
		result := CoerceQuantity(v.input)
		if result != v.expected {
			t.Errorf("CoerceQuantity(%v) = %f, expected %f", v.input, result, v.expected)
		}
	}
}

func TestDailyBoqTargetPlan_SplitsEvenly(t *testing.T) {
	task := buildTestTask(100)
	task.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task.ExpectedEndDate = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	plan := task.DailyBoqTargetPlan(time.UTC)

	if len(plan) != 5 {
		t.Fatalf("expected 5 plan days, got %d", len(plan))
	}

	for i, day := range plan {
		if day.Target != 20 {
			t.Errorf("expected target 20.00 on day %d, got %f", i, day.Target)
		}
	}

	if plan[0].Date != "2024-01-01" || plan[4].Date != "2024-01-05" {
		t.Errorf("plan spans wrong window: %s to %s", plan[0].Date, plan[4].Date)
	}
}

func TestDailyBoqTargetPlan_EmptyOnBadWindow(t *testing.T) {
	task := buildTestTask(100)
	task.StartDate = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	task.ExpectedEndDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	plan := task.DailyBoqTargetPlan(time.UTC)
	if len(plan) != 0 {
		t.Errorf("inverted window must yield an empty plan, got %d days", len(plan))
	}

	task = buildTestTask(100)
	plan = task.DailyBoqTargetPlan(time.UTC)
	if len(plan) != 0 {
		t.Errorf("missing dates must yield an empty plan, got %d days", len(plan))
	}

	task = buildTestTask(0)
	task.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task.ExpectedEndDate = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	plan = task.DailyBoqTargetPlan(time.UTC)
	if len(plan) != 0 {
		t.Errorf("zero target must yield an empty plan, got %d days", len(plan))
	}
}

func TestProgressSummary(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	task := buildTestTask(100)
	task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 70}, day, day)

	summary := task.ProgressSummary()
	if summary.TotalAchieved != 70 || summary.Remaining != 30 || summary.IsTargetAchieved {
		t.Errorf("expected 70 done, 30 remaining, not achieved, got %+v", summary)
	}

	task.RecordDailyProgress(&ProgressSubmission{QuantityDone: 50}, day, day)

	summary = task.ProgressSummary()
	if summary.TotalAchieved != 120 || summary.Remaining != 0 || !summary.IsTargetAchieved {
		t.Errorf("expected 120 done, 0 remaining, achieved, got %+v", summary)
	}
}
