package coach

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/suggest"
	"github.com/atelierlab/art-coach/backend/pkg/utils"
)

// Handler serves the coach registry and the coach suggester.
type Handler struct {
	coaches   coach.Store
	suggester *suggest.Service
}

// New creates the coach handler. suggester may be nil.
func New(coaches coach.Store, suggester *suggest.Service) *Handler {
	return &Handler{coaches: coaches, suggester: suggester}
}

// RegisterRoutes registers the coach routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/coaches", h.handleListCoaches)
	r.Get("/coaches/suggest", h.handleSuggestCoach)
}

func (h *Handler) handleListCoaches(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.coaches.List())
}

func (h *Handler) handleSuggestCoach(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "coach suggestion unavailable")
		return
	}

	question := strings.TrimSpace(r.URL.Query().Get("q"))
	if question == "" {
		utils.RespondError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.suggester.Suggest(r.Context(), question))
}
