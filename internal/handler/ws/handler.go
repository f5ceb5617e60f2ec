// Package ws carries the chat exchange over a WebSocket connection: one
// inbound frame per user submission, streamed deltas and the final turn
// back.
package ws

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	"github.com/atelierlab/art-coach/backend/internal/service/prompt"
)

// Handler upgrades chat sessions to WebSocket connections.
type Handler struct {
	aiSvc    *ai.Service
	upgrader websocket.Upgrader
}

// New creates the WebSocket chat handler.
func New(aiSvc *ai.Service) *Handler {
	return &Handler{
		aiSvc: aiSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Text         string              `json:"text"`
	Illustrate   bool                `json:"illustrate"`
	Enhancements prompt.Enhancements `json:"enhancements"`
}

type outboundMessage struct {
	Event    string             `json:"event"`
	Content  string             `json:"content,omitempty"`
	Error    string             `json:"error,omitempty"`
	Exchange *ai.ExchangeResult `json:"exchange,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session=%s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened for session=%s", sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for session=%s: %v", sessionID, err)
			}
			return
		}

		result, err := h.aiSvc.ExchangeStream(r.Context(), ai.ExchangeRequest{
			SessionID:    sessionID,
			Text:         inbound.Text,
			Illustrate:   inbound.Illustrate,
			Enhancements: inbound.Enhancements,
		}, func(delta string) {
			h.write(conn, sessionID, outboundMessage{Event: "delta", Content: delta})
		})
		if err != nil {
			h.write(conn, sessionID, outboundMessage{Event: "error", Error: err.Error()})
			continue
		}

		h.write(conn, sessionID, outboundMessage{Event: "exchange", Exchange: &result})
	}
}

func (h *Handler) write(conn *websocket.Conn, sessionID string, msg outboundMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed for session=%s: %v", sessionID, err)
	}
}
