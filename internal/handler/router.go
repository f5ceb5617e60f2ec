package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/atelierlab/art-coach/backend/internal/handler/chat"
	coachHandler "github.com/atelierlab/art-coach/backend/internal/handler/coach"
	"github.com/atelierlab/art-coach/backend/internal/handler/stream"
	"github.com/atelierlab/art-coach/backend/internal/handler/ws"
	middlewarePkg "github.com/atelierlab/art-coach/backend/internal/middleware"
	coachModel "github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	chatService "github.com/atelierlab/art-coach/backend/internal/service/chat"
	"github.com/atelierlab/art-coach/backend/internal/service/prompt"
	"github.com/atelierlab/art-coach/backend/internal/service/suggest"
	"github.com/atelierlab/art-coach/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(coaches coachModel.Store, chatSvc *chatService.Service, aiSvc *ai.Service, suggester *suggest.Service, serverKey string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	coachH := coachHandler.New(coaches, suggester)
	chatH := chatHandler.New(chatSvc, coaches, aiSvc, serverKey)

	var streamH *stream.Handler
	var wsH *ws.Handler
	if aiSvc != nil {
		streamH = stream.New(aiSvc)
		wsH = ws.New(aiSvc)
	}

	r.Route("/api", func(api chi.Router) {
		coachH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			if streamH == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				return
			}

			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")
			if strings.TrimSpace(userMessage) == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			illustrate, _ := strconv.ParseBool(r.URL.Query().Get("illustrate"))
			enhancements := enhancementsFromQuery(r)

			if err := streamH.HandleStreamRequest(r.Context(), w, sessionID, userMessage, illustrate, enhancements); err != nil {
				// The error frame already went out over the stream.
				return
			}
		})

		if wsH != nil {
			wsH.RegisterRoutes(api)
		}
	})

	return r
}

func enhancementsFromQuery(r *http.Request) prompt.Enhancements {
	boolParam := func(name string) bool {
		v, _ := strconv.ParseBool(r.URL.Query().Get(name))
		return v
	}
	return prompt.Enhancements{
		Steps:      boolParam("steps"),
		Exercises:  boolParam("exercises"),
		Tables:     boolParam("tables"),
		References: boolParam("references"),
	}
}
