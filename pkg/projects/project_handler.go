package projects

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sitegrid-app/sitegrid-backend/pkg/communication"
	"github.com/sitegrid-app/sitegrid-backend/pkg/logger"
)

// Handler handles all project related API calls
type Handler struct {
	ProjectRepository ProjectRepositoryInterface
	Logger            logger.Interface
	ResponseManager   *communication.ResponseManager
}

// ProjectAdd is the route for adding a project
func (handler *Handler) ProjectAdd(writer http.ResponseWriter, request *http.Request) {
	project := Project{}

	err := json.NewDecoder(request.Body).Decode(&project)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(project)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = handler.ProjectRepository.Add(request.Context(), &project)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Persisting project in database did not work", err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, &project, http.StatusCreated)
}

// ProjectGet gets a single project
func (handler *Handler) ProjectGet(writer http.ResponseWriter, request *http.Request) {
	projectID := mux.Vars(request)["projectID"]

	project, err := handler.ProjectRepository.FindByID(request.Context(), projectID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Could not find project", err)
		return
	}

	handler.ResponseManager.Respond(writer, project)
}

// GetAllProjects is the route for getting all projects
func (handler *Handler) GetAllProjects(writer http.ResponseWriter, request *http.Request) {
	var page = 0
	var pageSize = 10
	var err error

	queryPage := request.URL.Query().Get("page")
	queryPageSize := request.URL.Query().Get("pageSize")
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

	projects, count, err := handler.ProjectRepository.FindAll(request.Context(), page, pageSize, includeDeleted)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Problem in query", err)
		return
	}

	pages := float64(count) / float64(pageSize)

	var response = map[string]interface{}{
		"results": projects,
		"pagination": map[string]interface{}{
			"resultCount": count,
			"pageSize":    pageSize,
			"pageIndex":   page,
			"pages":       int(math.Ceil(pages)),
		},
	}

	handler.ResponseManager.Respond(writer, response)
}

// ProjectUpdate is the route for updating a project
func (handler *Handler) ProjectUpdate(writer http.ResponseWriter, request *http.Request) {
	projectID := mux.Vars(request)["projectID"]

	project, err := handler.ProjectRepository.FindUpdatableByID(request.Context(), projectID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find project", err)
		return
	}

	err = json.NewDecoder(request.Body).Decode(&project)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	err = handler.ProjectRepository.Update(request.Context(), project)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Could not persist project", err)
		return
	}

	returnProject := Project(*project)

	handler.ResponseManager.Respond(writer, &returnProject)
}

// ProjectDelete soft deletes a project
func (handler *Handler) ProjectDelete(writer http.ResponseWriter, request *http.Request) {
	projectID := mux.Vars(request)["projectID"]

	err := handler.ProjectRepository.Delete(request.Context(), projectID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "Couldn't find project", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}
