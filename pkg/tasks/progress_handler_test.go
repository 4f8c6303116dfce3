package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sitegrid-app/sitegrid-backend/pkg/auth"
	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func buildTestTaskHandler(repository TaskRepositoryInterface) *Handler {
	return &Handler{
		TaskRepository:  repository,
		Ledger:          buildTestLedger(repository),
		Logger:          logger.Logger{},
		ResponseManager: &communication.ResponseManager{Logger: logger.Logger{}},
	}
}

func buildProgressRequest(t *testing.T, taskID string, body string) *http.Request {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/task/"+taskID+"/progress", strings.NewReader(body))
	request = mux.SetURLVars(request, map[string]string{"taskID": taskID})

	ctx := context.WithValue(request.Context(), auth.KeyUserID, primitive.NewObjectID().Hex())
	return request.WithContext(ctx)
}

func TestProgressAdd(t *testing.T) {
	repository := MockTaskRepository{}
	handler := buildTestTaskHandler(&repository)

	task := buildTestTask(100)
	_ = repository.Add(context.Background(), task)

	body := `{"boqQuantityDone":"12.5","remarks":"slab poured","imageUrl":["site1.jpg"],"latitude":12.97,"longitude":77.59}`
	recorder := httptest.NewRecorder()

	handler.ProgressAdd(recorder, buildProgressRequest(t, task.ID.Hex(), body))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorded := ProgressRecorded{}
	if err := json.NewDecoder(recorder.Body).Decode(&recorded); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}

	if recorded.Entry.BoqQuantityDone != 12.5 {
		t.Errorf("expected string quantity to be coerced to 12.5, got %f", recorded.Entry.BoqQuantityDone)
	}
	if recorded.Entry.Location == nil || recorded.Entry.Location.Latitude != 12.97 {
		t.Errorf("expected location to be recorded, got %v", recorded.Entry.Location)
	}
	if recorded.Summary.Remaining != 87.5 {
		t.Errorf("expected 87.5 remaining, got %f", recorded.Summary.Remaining)
	}
}

func TestProgressAdd_TaskNotFound(t *testing.T) {
	handler := buildTestTaskHandler(&MockTaskRepository{})

	recorder := httptest.NewRecorder()
	handler.ProgressAdd(recorder, buildProgressRequest(t, primitive.NewObjectID().Hex(), `{"boqQuantityDone":5}`))

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", recorder.Code)
	}
}

func TestProgressAdd_BadSubmissionID(t *testing.T) {
	repository := MockTaskRepository{}
	handler := buildTestTaskHandler(&repository)

	task := buildTestTask(100)
	_ = repository.Add(context.Background(), task)

	recorder := httptest.NewRecorder()
	handler.ProgressAdd(recorder, buildProgressRequest(t, task.ID.Hex(), `{"boqQuantityDone":5,"submissionId":"not-a-uuid"}`))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for a malformed submissionId, got %d", recorder.Code)
	}
}

func TestProgressGet(t *testing.T) {
	repository := MockTaskRepository{}
	handler := buildTestTaskHandler(&repository)

	task := buildTestTask(100)
	_ = repository.Add(context.Background(), task)

	recorder := httptest.NewRecorder()
	handler.ProgressAdd(recorder, buildProgressRequest(t, task.ID.Hex(), `{"boqQuantityDone":40}`))

	request := httptest.NewRequest(http.MethodGet, "/task/"+task.ID.Hex()+"/progress", nil)
	request = mux.SetURLVars(request, map[string]string{"taskID": task.ID.Hex()})
	recorder = httptest.NewRecorder()

	handler.ProgressGet(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	report := ProgressReport{}
	if err := json.NewDecoder(recorder.Body).Decode(&report); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}

	if len(report.Progress) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(report.Progress))
	}
	if report.Summary.TotalAchieved != 40 {
		t.Errorf("expected 40 achieved, got %f", report.Summary.TotalAchieved)
	}
}

func TestProgressGet_TaskNotFound(t *testing.T) {
	handler := buildTestTaskHandler(&MockTaskRepository{})

	taskID := primitive.NewObjectID().Hex()
	request := httptest.NewRequest(http.MethodGet, "/task/"+taskID+"/progress", nil)
	request = mux.SetURLVars(request, map[string]string{"taskID": taskID})
	recorder := httptest.NewRecorder()

	handler.ProgressGet(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", recorder.Code)
	}
}
