package handler

import (
	"net/http"

	"github.com/jamspace/jamspace/internal/ctxkeys"
	"github.com/jamspace/jamspace/internal/service"
)

type projectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *projectHandler {
	return &projectHandler{
		projectService: projectService,
	}
}

type createProjectRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Genre       string `json:"genre" validate:"max=100"`
	Deadline    string `json:"deadline" validate:"max=64"`
}

func (h *projectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		handleError(w, r, service.ErrUnauthorized)
		return
	}

	var req createProjectRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), user, service.NewProject{
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		Deadline:    req.Deadline,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *projectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.ByID(r.Context(), r.PathValue("projectId"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *projectHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *projectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		handleError(w, r, service.ErrUnauthorized)
		return
	}

	patch, err := readPatch(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), user, r.PathValue("projectId"), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}
