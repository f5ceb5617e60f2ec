package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/atelierlab/art-coach/backend/internal/model/chat"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ []chat.Turn) (string, error) {
	return f.reply, f.err
}

func newStore() coach.Store {
	return coach.NewMemoryStore(coach.Seed())
}

func TestSuggestHeuristicWithoutCompleter(t *testing.T) {
	svc := NewService(nil, newStore(), "")

	got := svc.Suggest(context.Background(), "How do I mix a muted color palette?")
	if got.Coach.ID != "color" {
		t.Fatalf("expected color coach, got %s", got.Coach.ID)
	}
	if got.Source != "heuristic" {
		t.Fatalf("expected heuristic source, got %s", got.Source)
	}
}

func TestSuggestUsesModelReply(t *testing.T) {
	svc := NewService(&fakeCompleter{reply: "composition"}, newStore(), "sk-server")

	got := svc.Suggest(context.Background(), "Where should the horizon go?")
	if got.Coach.ID != "composition" {
		t.Fatalf("expected composition coach, got %s", got.Coach.ID)
	}
	if got.Source != "model" {
		t.Fatalf("expected model source, got %s", got.Source)
	}
}

func TestSuggestClassifierErrorFallsBack(t *testing.T) {
	svc := NewService(&fakeCompleter{err: errors.New("upstream down")}, newStore(), "sk-server")

	got := svc.Suggest(context.Background(), "How do I paint glass texture?")
	if got.Coach.ID != "texture" {
		t.Fatalf("expected texture coach from heuristics, got %s", got.Coach.ID)
	}
	if got.Source != "heuristic" {
		t.Fatalf("expected heuristic source after classifier failure, got %s", got.Source)
	}
}

func TestSuggestUnusableReplyFallsBack(t *testing.T) {
	svc := NewService(&fakeCompleter{reply: "I think maybe ask a teacher?"}, newStore(), "sk-server")

	got := svc.Suggest(context.Background(), "something vague")
	if got.Source != "heuristic" {
		t.Fatalf("expected fallback for unusable reply, got %s via %s", got.Coach.ID, got.Source)
	}
	if got.Coach.ID != "overall" {
		t.Fatalf("expected overall advisor, got %s", got.Coach.ID)
	}
}
