package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/atelierlab/art-coach/backend/internal/service/ai"
	"github.com/atelierlab/art-coach/backend/internal/service/prompt"
	"github.com/atelierlab/art-coach/backend/pkg/utils"
)

// Handler delivers one exchange over Server-Sent Events, with delta frames
// when the configured strategy can stream.
type Handler struct {
	aiSvc *ai.Service
}

// New creates the stream handler.
func New(aiSvc *ai.Service) *Handler {
	return &Handler{aiSvc: aiSvc}
}

// StreamResponse is one SSE frame.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest runs the exchange for the query parameters already
// validated by the router and writes the SSE frames.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string, illustrate bool, enhancements prompt.Enhancements) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	h.send(w, flusher, StreamResponse{Event: "start", SessionID: sessionID})

	result, err := h.aiSvc.ExchangeStream(ctx, ai.ExchangeRequest{
		SessionID:    sessionID,
		Text:         userMessage,
		Illustrate:   illustrate,
		Enhancements: enhancements,
	}, func(delta string) {
		h.send(w, flusher, StreamResponse{Event: "delta", SessionID: sessionID, Content: delta})
	})
	if err != nil {
		h.send(w, flusher, StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
		return err
	}

	h.send(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   result.AssistantTurn.Text,
		ImageURL:  result.AssistantTurn.ImageURL,
	})

	if result.IllustrationErr != "" {
		h.send(w, flusher, StreamResponse{Event: "illustration-error", SessionID: sessionID, Error: result.IllustrationErr})
	}

	h.send(w, flusher, StreamResponse{Event: "end", SessionID: sessionID, Finished: true})

	log.Printf("[stream] completed exchange for session=%s", sessionID)
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}
