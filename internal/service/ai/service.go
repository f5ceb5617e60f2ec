// Package ai implements the remote inference gateway: it turns the stored
// history into a provider request, appends the normalized reply, and layers
// the optional illustration on top.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/atelierlab/art-coach/backend/internal/model/chat"
	chatservice "github.com/atelierlab/art-coach/backend/internal/service/chat"
	"github.com/atelierlab/art-coach/backend/internal/service/prompt"
)

// Completer is one of the two mutually exclusive request strategies. The
// first turn of history carries the request-only instruction; assistant
// turns contribute only their text.
type Completer interface {
	Complete(ctx context.Context, apiKey string, history []chat.Turn) (string, error)
}

// Streamer is implemented by strategies that can deliver the reply
// incrementally. onDelta receives each text fragment; the full reply is
// returned at the end.
type Streamer interface {
	Stream(ctx context.Context, apiKey string, history []chat.Turn, onDelta func(string)) (string, error)
}

// Illustrator produces an image reference for an assistant reply.
type Illustrator interface {
	Illustrate(ctx context.Context, apiKey, advice string) (string, error)
}

// ExchangeRequest describes one user submission.
type ExchangeRequest struct {
	SessionID    string
	Text         string
	Illustrate   bool
	Enhancements prompt.Enhancements
}

// ExchangeResult is the outcome of a completed exchange. IllustrationErr is
// set when the image sub-request failed; the text turn is preserved either
// way.
type ExchangeResult struct {
	UserTurn        chat.Turn `json:"userTurn"`
	AssistantTurn   chat.Turn `json:"assistantTurn"`
	IllustrationErr string    `json:"illustrationError,omitempty"`
}

// Service wires the configured strategy to the conversation state.
type Service struct {
	completer   Completer
	illustrator Illustrator
	chatSvc     *chatservice.Service
}

// NewService creates the gateway. illustrator may be nil when the deployed
// provider offers no image generation.
func NewService(completer Completer, illustrator Illustrator, chatSvc *chatservice.Service) *Service {
	return &Service{
		completer:   completer,
		illustrator: illustrator,
		chatSvc:     chatSvc,
	}
}

// SupportsIllustration reports whether an image endpoint is configured.
func (s *Service) SupportsIllustration() bool {
	return s.illustrator != nil
}

// Completer exposes the underlying strategy for reuse by other services.
func (s *Service) Completer() Completer {
	return s.completer
}

// Exchange runs one full interaction: append the user turn, call the
// strategy with the derived instruction, append the reply, and optionally
// attach an illustration to the same assistant turn. A chat failure leaves
// the session intact; only the image sub-request degrades silently into a
// text-only turn.
func (s *Service) Exchange(ctx context.Context, req ExchangeRequest) (ExchangeResult, error) {
	return s.exchange(ctx, req, nil)
}

// ExchangeStream behaves like Exchange but forwards reply fragments through
// onDelta when the strategy supports streaming; otherwise the reply arrives
// in one piece.
func (s *Service) ExchangeStream(ctx context.Context, req ExchangeRequest, onDelta func(string)) (ExchangeResult, error) {
	return s.exchange(ctx, req, onDelta)
}

func (s *Service) exchange(ctx context.Context, req ExchangeRequest, onDelta func(string)) (ExchangeResult, error) {
	session, err := s.chatSvc.GetSession(ctx, req.SessionID)
	if err != nil {
		return ExchangeResult{}, err
	}

	userTurn, err := s.chatSvc.AppendUser(ctx, req.SessionID, req.Text)
	if err != nil {
		return ExchangeResult{}, err
	}
	result := ExchangeResult{UserTurn: userTurn}

	history, err := s.requestHistory(ctx, req)
	if err != nil {
		return result, err
	}

	reply, err := s.complete(ctx, session.APIKey, history, onDelta)
	if err != nil {
		return result, fmt.Errorf("chat completion failed: %w", err)
	}

	assistantTurn, err := s.chatSvc.AppendAssistant(ctx, req.SessionID, reply, "")
	if err != nil {
		return result, err
	}
	result.AssistantTurn = assistantTurn

	if req.Illustrate && s.illustrator != nil {
		imageURL, illErr := s.illustrator.Illustrate(ctx, session.APIKey, reply)
		if illErr != nil {
			log.Printf("[ai] illustration failed for session=%s: %v", req.SessionID, illErr)
			result.IllustrationErr = illErr.Error()
			return result, nil
		}
		updated, attachErr := s.chatSvc.AttachImage(ctx, req.SessionID, assistantTurn.ID, imageURL)
		if attachErr != nil {
			log.Printf("[ai] could not attach illustration for session=%s: %v", req.SessionID, attachErr)
			result.IllustrationErr = attachErr.Error()
			return result, nil
		}
		result.AssistantTurn = updated
	}

	return result, nil
}

// requestHistory copies the stored history and substitutes the derived
// instruction for the system turn. The stored history is never mutated.
func (s *Service) requestHistory(ctx context.Context, req ExchangeRequest) ([]chat.Turn, error) {
	history, err := s.chatSvc.History(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 && history[0].Role == chat.RoleSystem {
		history[0].Text = req.Enhancements.Apply(history[0].Text)
	}
	return history, nil
}

func (s *Service) complete(ctx context.Context, apiKey string, history []chat.Turn, onDelta func(string)) (string, error) {
	if onDelta != nil {
		if streamer, ok := s.completer.(Streamer); ok {
			return streamer.Stream(ctx, apiKey, history, onDelta)
		}
	}
	reply, err := s.completer.Complete(ctx, apiKey, history)
	if err != nil {
		return "", err
	}
	if onDelta != nil && reply != "" {
		onDelta(reply)
	}
	return reply, nil
}
