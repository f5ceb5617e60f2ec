package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	chatservice "github.com/atelierlab/art-coach/backend/internal/service/chat"
	"github.com/atelierlab/art-coach/backend/internal/service/prompt"
	"github.com/atelierlab/art-coach/backend/pkg/utils"
)

// Handler serves session lifecycle and message exchange.
type Handler struct {
	chatSvc   *chatservice.Service
	coaches   coach.Store
	aiSvc     *ai.Service
	serverKey string
}

// New creates the chat handler. aiSvc may be nil when no provider is
// configured; serverKey is the optional deployment-level credential used
// when a session does not bring its own.
func New(chatSvc *chatservice.Service, coaches coach.Store, aiSvc *ai.Service, serverKey string) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		coaches:   coaches,
		aiSvc:     aiSvc,
		serverKey: serverKey,
	}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/session/{sessionID}/coach", h.handleSwitchCoach)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
	r.Post("/session/{sessionID}/messages", h.handleSendMessage)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CoachID string `json:"coachId"`
		APIKey  string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.CoachID == "" {
		utils.RespondError(w, http.StatusBadRequest, "coachId is required")
		return
	}

	c, ok := h.coaches.FindByID(payload.CoachID)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "coach not found")
		return
	}

	apiKey := h.resolveKey(r, payload.APIKey)
	if apiKey == "" {
		utils.RespondError(w, http.StatusUnauthorized, "an API key is required before starting a session")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), c, apiKey)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleSwitchCoach applies the edge-triggered coach change: the client
// reports the current selection on every change and the reset happens only
// when the coach actually differs.
func (h *Handler) handleSwitchCoach(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		CoachID string `json:"coachId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, ok := h.coaches.FindByID(payload.CoachID)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "coach not found")
		return
	}

	session, switched, err := h.chatSvc.SwitchCoach(r.Context(), sessionID, c)
	if err != nil {
		utils.RespondError(w, statusForChatError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"session":  session,
		"switched": switched,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusForChatError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, transcript)
}

// handleSendMessage runs one full exchange and blocks until the reply (and
// optional illustration) is in.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if h.aiSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "no inference provider configured")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Text         string              `json:"text"`
		Illustrate   bool                `json:"illustrate"`
		Enhancements prompt.Enhancements `json:"enhancements"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.aiSvc.Exchange(r.Context(), ai.ExchangeRequest{
		SessionID:    sessionID,
		Text:         payload.Text,
		Illustrate:   payload.Illustrate,
		Enhancements: payload.Enhancements,
	})
	if err != nil {
		utils.RespondError(w, statusForExchangeError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) resolveKey(r *http.Request, bodyKey string) string {
	if key := strings.TrimSpace(bodyKey); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		if key := strings.TrimSpace(token); key != "" {
			return key
		}
	}
	return h.serverKey
}

func statusForChatError(err error) int {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatservice.ErrEmptyMessage), errors.Is(err, chatservice.ErrCoachRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// statusForExchangeError keeps the session alive on provider failures: the
// client gets a gateway error and can simply submit again.
func statusForExchangeError(err error) int {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatservice.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrMissingAPIKey):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
