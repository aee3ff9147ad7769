package projects

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/projecthub-go/apperror"
	"github.com/user/projecthub-go/auth"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service  *ProjectService
	validate *validator.Validate
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(service *ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the project routes on a router that already has
// auth.RequireUser applied. Mutations additionally pass the admin gate.
func (h *ProjectHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.handleList)
	router.Get("/{projectID}", h.handleGet)

	router.With(auth.RequireAdmin).Post("/", h.handleCreate)
	router.With(auth.RequireAdmin).Put("/{projectID}", h.handleUpdate)
	router.With(auth.RequireAdmin).Delete("/{projectID}", h.handleDelete)
}

// handleList godoc
// @Summary List projects
// @Description Returns a page of projects. Any authenticated user.
// @Tags Projects
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Maximum rows to return" default(100)
// @Success 200 {array} projects.Project "Projects"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) handleList(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	projects, svcErr := h.service.List(r.Context(), skip, limit)
	if svcErr != nil {
		auth.WriteError(w, r, svcErr)
		return
	}
	auth.WriteJSON(w, http.StatusOK, projects)
}

// handleGet godoc
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} projects.Project "Project"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 404 {object} apperror.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *ProjectHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	project, svcErr := h.service.Get(r.Context(), id)
	if svcErr != nil {
		auth.WriteError(w, r, svcErr)
		return
	}
	auth.WriteJSON(w, http.StatusOK, project)
}

// handleCreate godoc
// @Summary Create a project
// @Description Creates a project owned by the calling admin.
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectBody body projects.CreateProjectRequest true "Project details"
// @Success 201 {object} projects.Project "Project created"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 403 {object} apperror.ErrorResponse "Not an admin"
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("could not validate credentials", nil))
		return
	}

	var req CreateProjectRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("name is required", err))
		return
	}

	project, svcErr := h.service.Create(r.Context(), req, user.ID)
	if svcErr != nil {
		auth.WriteError(w, r, svcErr)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, project)
}

// handleUpdate godoc
// @Summary Update a project
// @Description Partially updates a project. Admin only.
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param projectBody body projects.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} projects.Project "Updated project"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 403 {object} apperror.ErrorResponse "Not an admin"
// @Failure 404 {object} apperror.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{projectID} [put]
func (h *ProjectHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req UpdateProjectRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(req); err != nil {
		auth.WriteError(w, r, apperror.NewValidationError("invalid project fields", err))
		return
	}

	project, svcErr := h.service.Update(r.Context(), id, req)
	if svcErr != nil {
		auth.WriteError(w, r, svcErr)
		return
	}
	auth.WriteJSON(w, http.StatusOK, project)
}

// handleDelete godoc
// @Summary Delete a project
// @Description Deletes a project. Admin only.
// @Tags Projects
// @Param projectID path int true "Project ID"
// @Success 204 "Project deleted"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 403 {object} apperror.ErrorResponse "Not an admin"
// @Failure 404 {object} apperror.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{projectID} [delete]
func (h *ProjectHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if svcErr := h.service.Delete(r.Context(), id); svcErr != nil {
		auth.WriteError(w, r, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {projectID} URL parameter.
func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "projectID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError("project id must be a positive integer", err)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewValidationError(name+" must be an integer", err)
	}
	return value, nil
}
