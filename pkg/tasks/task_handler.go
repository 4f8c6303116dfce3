package tasks

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
	"github.com/sitegrid-app/sitegrid-backend/pkg/projects"
)

// Handler handles all task related API calls
type Handler struct {
	TaskRepository    TaskRepositoryInterface
	ProjectRepository projects.ProjectRepositoryInterface
	Ledger            *ProgressLedger
	Logger            logger.Interface
	ResponseManager   *communication.ResponseManager
}

// TaskAdd is the route for adding a task
func (handler *Handler) TaskAdd(writer http.ResponseWriter, request *http.Request) {
	task := Task{}

	err := json.NewDecoder(request.Body).Decode(&task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(task)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	if !task.UnitOfMeasure.IsValid() {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Unit of measure %s does not exist", task.UnitOfMeasure), nil)
		return
	}

	if !task.StartDate.IsZero() && !task.ExpectedEndDate.IsZero() && task.ExpectedEndDate.Before(task.StartDate) {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Expected end date must not lie before the start date", nil)
		return
	}

	_, err = handler.ProjectRepository.FindByID(request.Context(), task.ProjectID.Hex())
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Could not find project", err)
		return
	}

	err = handler.TaskRepository.Add(request.Context(), &task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Persisting task in database did not work", err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, &task, http.StatusCreated)
}

// TaskUpdate is the route for updating a Task
func (handler *Handler) TaskUpdate(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]

	task, err := handler.TaskRepository.FindUpdatableByID(request.Context(), taskID, false)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
		return
	}

	err = json.NewDecoder(request.Body).Decode(&task)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if !task.StartDate.IsZero() && !task.ExpectedEndDate.IsZero() && task.ExpectedEndDate.Before(task.StartDate) {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Expected end date must not lie before the start date", nil)
		return
	}

	err = handler.TaskRepository.Update(request.Context(), task, false)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not persist task", err)
		return
	}

	returnTask := Task(*task)

	handler.ResponseManager.Respond(writer, &returnTask)
}

// TaskGet gets a single task
func (handler *Handler) TaskGet(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]

	task, err := handler.TaskRepository.FindByID(request.Context(), taskID, false)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Could not find task", err)
		return
	}

	handler.ResponseManager.Respond(writer, task)
}

// GetAllTasks is the route for getting all tasks
func (handler *Handler) GetAllTasks(writer http.ResponseWriter, request *http.Request) {
	var page = 0
	var pageSize = 10
	var err error

	queryPage := request.URL.Query().Get("page")
	queryPageSize := request.URL.Query().Get("pageSize")
	queryProjectID := request.URL.Query().Get("projectId")
	queryStatus := request.URL.Query().Get("status")
	includeDeletedQuery := request.URL.Query().Get("includeDeleted")

	includeDeleted := false
	if includeDeletedQuery != "" {
		includeDeleted, err = strconv.ParseBool(includeDeletedQuery)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
				"Bad value for includeDeleted", err)
			return
		}
	}

	if queryPage != "" {
		page, err = strconv.Atoi(queryPage)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
				"Bad query parameter page", err)
			return
		}
	}

	if queryPageSize != "" {
		pageSize, err = strconv.Atoi(queryPageSize)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
				"Bad query parameter pageSize", err)
			return
		}

		if pageSize > 25 {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
				"Page size can't be more than 25", nil)
			return
		}
	}

	var filters []Filter

	if queryStatus != "" {
		filters = append(filters, Filter{Field: "status", Value: queryStatus})
	}

	tasks, count, err := handler.TaskRepository.FindAll(request.Context(), queryProjectID, page, pageSize, filters, includeDeleted)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Problem in query", err)
		return
	}

	pages := float64(count) / float64(pageSize)

	var response = map[string]interface{}{
		"results": tasks,
		"pagination": map[string]interface{}{
			"resultCount": count,
			"pageSize":    pageSize,
			"pageIndex":   page,
			"pages":       int(math.Ceil(pages)),
		},
	}

	handler.ResponseManager.Respond(writer, response)
}

// TaskDelete soft deletes a task
func (handler *Handler) TaskDelete(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]

	err := handler.TaskRepository.Delete(request.Context(), taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find task", err)
			return
		}
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not delete task", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}
