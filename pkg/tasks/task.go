package tasks

import (
	"math"
	"time"

	"github.com/sitegrid-app/sitegrid-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnitOfMeasure is the unit a BOQ quantity is measured in
type UnitOfMeasure string

// The units of measure a BOQ position can carry
const (
	UnitCubicMetre  UnitOfMeasure = "m³"
	UnitSquareMetre UnitOfMeasure = "m²"
	UnitMetre       UnitOfMeasure = "m"
	UnitKilogram    UnitOfMeasure = "kg"
	UnitLitre       UnitOfMeasure = "litre"
	UnitTon         UnitOfMeasure = "ton"
	UnitSquareFoot  UnitOfMeasure = "ft²"
	UnitCubicFoot   UnitOfMeasure = "ft³"
	UnitCount       UnitOfMeasure = "nos"
	UnitSite        UnitOfMeasure = "site"
	UnitCustom      UnitOfMeasure = "custom"
)

// IsValid checks a unit against the known units
func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitCubicMetre, UnitSquareMetre, UnitMetre, UnitKilogram, UnitLitre,
		UnitTon, UnitSquareFoot, UnitCubicFoot, UnitCount, UnitSite, UnitCustom:
		return true
	}
	return false
}

// Task statuses
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task is the model for a task carrying a BOQ quantity target and its daily progress ledger
type Task struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	ProjectID      primitive.ObjectID `json:"projectId" bson:"projectId" validate:"required"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Title          string             `json:"title" bson:"title" validate:"required"`
	Description    string             `json:"description" bson:"description"`

	AssignedTo []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	Status     string               `json:"status" bson:"status"`

	StartDate       time.Time `json:"startDate" bson:"startDate"`
	ExpectedEndDate time.Time `json:"expectedEndDate" bson:"expectedEndDate"`
	ActualEndDate   time.Time `json:"actualEndDate" bson:"actualEndDate"`

	ExpectedCost float64 `json:"expectedCost" bson:"expectedCost"`
	ActualCost   float64 `json:"actualCost" bson:"actualCost"`

	BoqQuantityTarget float64       `json:"boqQuantityTarget" bson:"boqQuantityTarget" validate:"required,gt=0"`
	UnitOfMeasure     UnitOfMeasure `json:"unitOfMeasure" bson:"unitOfMeasure" validate:"required"`

	DailyProgress []ProgressEntry `json:"dailyProgress" bson:"dailyProgress"`

	Deleted bool `json:"deleted" bson:"deleted"`
}

// TaskUpdate is the view of a task for an update. The quantity target schedule and metadata
// may change, the unit of measure and the progress ledger may not.
type TaskUpdate struct {
	ID             primitive.ObjectID `bson:"_id" json:"-"`
	ProjectID      primitive.ObjectID `bson:"projectId" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"-"`
	LastModifiedAt time.Time          `bson:"lastModifiedAt" json:"-"`
	Title          string             `json:"title" bson:"title" validate:"required"`
	Description    string             `json:"description" bson:"description"`

	AssignedTo []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	Status     string               `json:"status" bson:"status"`

	StartDate       time.Time `json:"startDate" bson:"startDate"`
	ExpectedEndDate time.Time `json:"expectedEndDate" bson:"expectedEndDate"`
	ActualEndDate   time.Time `json:"actualEndDate" bson:"actualEndDate"`

	ExpectedCost float64 `json:"expectedCost" bson:"expectedCost"`
	ActualCost   float64 `json:"actualCost" bson:"actualCost"`

	BoqQuantityTarget float64       `json:"boqQuantityTarget" bson:"boqQuantityTarget" validate:"required,gt=0"`
	UnitOfMeasure     UnitOfMeasure `bson:"unitOfMeasure" json:"-"`

	DailyProgress []ProgressEntry `bson:"dailyProgress" json:"-"`

	Deleted bool `bson:"deleted" json:"-"`
}

// TotalBoqDone sums the quantity done over all progress entries
func (t *Task) TotalBoqDone() float64 {
	var total float64
	for _, entry := range t.DailyProgress {
		total += entry.BoqQuantityDone
	}
	return total
}

// CurrentCompletion returns the completion percentage of the most recent entry
func (t *Task) CurrentCompletion() float64 {
	if len(t.DailyProgress) == 0 {
		return 0
	}
	return t.DailyProgress[len(t.DailyProgress)-1].PercentageCompleted
}

// Duration returns the planned execution window in calendar days, 0 when the window is incomplete
func (t *Task) Duration() int {
	if t.StartDate.IsZero() || t.ExpectedEndDate.IsZero() {
		return 0
	}
	return date.DaysInclusive(t.StartDate, t.ExpectedEndDate, time.UTC)
}

// IsDelayed reports whether the task finished after its expected end
func (t *Task) IsDelayed() bool {
	if t.ActualEndDate.IsZero() {
		return false
	}
	return t.ActualEndDate.After(t.ExpectedEndDate)
}

// DelayDays returns how many days the task finished late
func (t *Task) DelayDays() int {
	if t.ActualEndDate.IsZero() {
		return 0
	}

	delay := t.ActualEndDate.Sub(t.ExpectedEndDate).Hours() / 24
	return int(math.Max(0, math.Ceil(delay)))
}
