package handler

import (
	"net/http"

	"github.com/jamspace/jamspace/internal/service"
)

type discoverHandler struct {
	discoverService *service.DiscoverService
}

func NewDiscoverHandler(discoverService *service.DiscoverService) *discoverHandler {
	return &discoverHandler{
		discoverService: discoverService,
	}
}

func (h *discoverHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profiles, err := h.discoverService.Search(r.Context(), service.DiscoverFilter{
		Role:   q.Get("role"),
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}
