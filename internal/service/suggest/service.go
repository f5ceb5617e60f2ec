// Package suggest recommends a coach for a learner's question, using the
// configured chat strategy when a server credential is available and falling
// back to keyword heuristics otherwise.
package suggest

import (
	"context"
	"log"
	"strings"

	"github.com/atelierlab/art-coach/backend/internal/analysis/topic"
	"github.com/atelierlab/art-coach/backend/internal/model/chat"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	"github.com/atelierlab/art-coach/backend/internal/service/ai"
)

const classifierInstruction = "You route art questions to a coach. Reply with exactly one word from this list: " +
	"drawing, color, texture, composition, general, overall. No other text."

// Suggestion is the recommendation returned to the client.
type Suggestion struct {
	Coach      coach.Coach `json:"coach"`
	Source     string      `json:"source"`
	Confidence float32     `json:"confidence"`
}

// Service picks the coach for a question.
type Service struct {
	completer ai.Completer
	coaches   coach.Store
	apiKey    string
}

// NewService builds the suggester. completer and apiKey may be empty; the
// heuristic fallback then handles every request.
func NewService(completer ai.Completer, coaches coach.Store, apiKey string) *Service {
	return &Service{completer: completer, coaches: coaches, apiKey: apiKey}
}

// LLMEnabled reports whether the model-backed classifier can run.
func (s *Service) LLMEnabled() bool {
	return s.completer != nil && s.apiKey != ""
}

// Suggest recommends a coach. Classifier errors degrade to the heuristic,
// never to the caller.
func (s *Service) Suggest(ctx context.Context, question string) Suggestion {
	if s.LLMEnabled() {
		if suggestion, ok := s.classify(ctx, question); ok {
			return suggestion
		}
	}
	return s.heuristic(question)
}

func (s *Service) classify(ctx context.Context, question string) (Suggestion, bool) {
	history := []chat.Turn{
		chat.SystemTurn(classifierInstruction),
		chat.UserTurn(question),
	}

	reply, err := s.completer.Complete(ctx, s.apiKey, history)
	if err != nil {
		log.Printf("[suggest] classifier call failed, using heuristics: %v", err)
		return Suggestion{}, false
	}

	normalized := strings.ToLower(strings.TrimSpace(reply))
	for _, id := range topic.KnownCoachIDs() {
		if !strings.Contains(normalized, id) {
			continue
		}
		c, ok := s.coaches.FindByID(id)
		if !ok {
			continue
		}
		return Suggestion{Coach: c, Source: "model", Confidence: 0.9}, true
	}

	log.Printf("[suggest] classifier reply unusable (%q), using heuristics", reply)
	return Suggestion{}, false
}

func (s *Service) heuristic(question string) Suggestion {
	decision := topic.Analyze(question)
	c, ok := s.coaches.FindByID(decision.CoachID)
	if !ok {
		// The analyzer only emits registry ids; this is a guard against a
		// registry seeded without the fallback advisor.
		c = coach.Seed()[len(coach.Seed())-1]
	}

	confidence := float32(0.3)
	if decision.Score > 0 {
		confidence = 0.5 + float32(min(decision.Score, 12))/24
	}
	return Suggestion{Coach: c, Source: "heuristic", Confidence: confidence}
}
