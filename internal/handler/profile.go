package handler

import (
	"net/http"

	"github.com/jamspace/jamspace/internal/ctxkeys"
	"github.com/jamspace/jamspace/internal/service"
)

type profileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *profileHandler {
	return &profileHandler{
		profileService: profileService,
	}
}

func (h *profileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.ByID(r.Context(), r.PathValue("userId"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *profileHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	profile, err := h.profileService.Update(r.Context(), user, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Reconcile rebuilds the caller's project summaries from the stored projects.
func (h *profileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		handleError(w, r, service.ErrUnauthorized)
		return
	}

	profile, err := h.profileService.ReconcileProjects(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
