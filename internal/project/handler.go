package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/projectshelf-api/internal/httputil"
	"github.com/redmonkez12/projectshelf-api/internal/logging"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ProjectResponse wraps a single project
type ProjectResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Project *Project `json:"project"`
}

// ProjectListResponse wraps all projects
type ProjectListResponse struct {
	Success  bool       `json:"success"`
	Projects []*Project `json:"projects"`
}

// Routes mounts the project endpoints. Changing or removing an existing project requires a session.
func (h *Handler) Routes(guard func(http.Handler) http.Handler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Get("/get", h.List)
		r.Get("/getbyid/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Put("/update/{id}", h.Update)
			r.Delete("/delete/{id}", h.Delete)
		})
	}
}

// Create adds a project
// @Summary      Create project
// @Tags         project
// @Accept       json
// @Produce      json
// @Param        request body Input true "Project"
// @Success      201 {object} ProjectResponse
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      409 {object} httputil.Envelope "Student already has a project"
// @Router       /project/create [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logger.Warn("invalid create project body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, logger, "create project failed", err)
		return
	}

	logger.Info("project created", "project_id", p.ID)
	httputil.RespondJSON(w, ProjectResponse{Success: true, Message: "Project created", Project: p}, http.StatusCreated)
}

// List returns all projects
// @Summary      List projects
// @Tags         project
// @Produce      json
// @Success      200 {object} ProjectListResponse
// @Router       /project/get [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	projects, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, logger, "list projects failed", err)
		return
	}

	httputil.RespondJSON(w, ProjectListResponse{Success: true, Projects: projects}, http.StatusOK)
}

// Get returns one project
// @Summary      Get project
// @Tags         project
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} ProjectResponse
// @Failure      404 {object} httputil.Envelope "Project not found"
// @Router       /project/getbyid/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, logger, "get project failed", err)
		return
	}

	httputil.RespondJSON(w, ProjectResponse{Success: true, Project: p}, http.StatusOK)
}

// Update replaces a project
// @Summary      Update project
// @Tags         project
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Param        request body Input true "Project"
// @Success      200 {object} ProjectResponse
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      401 {object} httputil.Envelope "Not authenticated"
// @Failure      404 {object} httputil.Envelope "Project not found"
// @Router       /project/update/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	logger = logger.WithFields(map[string]any{"project_id": id})

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logger.Warn("invalid update project body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, logger, "update project failed", err)
		return
	}

	logger.Info("project updated")
	httputil.RespondJSON(w, ProjectResponse{Success: true, Message: "Project updated", Project: p}, http.StatusOK)
}

// Delete removes a project
// @Summary      Delete project
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Project ID"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Not authenticated"
// @Failure      404 {object} httputil.Envelope "Project not found"
// @Router       /project/delete/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, logger.WithFields(map[string]any{"project_id": id}), "delete project failed", err)
		return
	}

	logger.Info("project deleted", "project_id", id)
	httputil.RespondJSON(w, httputil.Envelope{Success: true, Message: "Project deleted"}, http.StatusOK)
}

func (h *Handler) fail(w http.ResponseWriter, logger *logging.Logger, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		logger.Warn(msg, "error", err.Error())
		httputil.RespondErrorWithCode(w, strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": "), httputil.CodeInvalidProject, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		logger.Warn(msg, "error", err.Error())
		httputil.RespondErrorWithCode(w, "project not found", httputil.CodeProjectNotFound, http.StatusNotFound)
	case errors.Is(err, ErrStudentIDInUse):
		logger.Warn(msg, "error", err.Error())
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeStudentIDInUse, http.StatusConflict)
	default:
		logger.Error(msg+": internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "something went wrong, please try again", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid project id", httputil.CodeInvalidProjectID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
