package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sitegrid-app/sitegrid-backend/pkg/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// progressRequest is deliberately loose about the quantity type, older app
// versions send it as a string
type progressRequest struct {
	QuantityDone interface{} `json:"boqQuantityDone"`
	Remarks      string      `json:"remarks"`
	ImageURLs    []string    `json:"imageUrl"`
	Latitude     *float64    `json:"latitude"`
	Longitude    *float64    `json:"longitude"`
	SubmissionID string      `json:"submissionId"`
}

// ProgressAdd is the route for submitting daily progress on a task
func (handler *Handler) ProgressAdd(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]

	body := progressRequest{}
	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if body.SubmissionID != "" {
		if _, err := uuid.Parse(body.SubmissionID); err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
				"submissionId must be a UUID", err)
			return
		}
	}

	userID, ok := request.Context().Value(auth.KeyUserID).(string)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not read user from request context", nil)
		return
	}

	submittedBy, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"User id in token is malformed", err)
		return
	}

	submission := ProgressSubmission{
		QuantityDone: CoerceQuantity(body.QuantityDone),
		Remarks:      body.Remarks,
		ImageURLs:    body.ImageURLs,
		SubmittedBy:  submittedBy,
		SubmissionID: body.SubmissionID,
	}

	if body.Latitude != nil && body.Longitude != nil {
		submission.Location = &GeoLocation{
			Latitude:  *body.Latitude,
			Longitude: *body.Longitude,
		}
	}

	recorded, err := handler.Ledger.RecordProgress(request.Context(), taskID, &submission)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
			return
		}
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not record progress", err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, recorded, http.StatusCreated)
}

// ProgressGet is the route for reading a task's full progress report
func (handler *Handler) ProgressGet(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]

	report, err := handler.Ledger.GetProgress(request.Context(), taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
			return
		}
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not assemble progress report", err)
		return
	}

	handler.ResponseManager.Respond(writer, report)
}
