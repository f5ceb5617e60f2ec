package chat_test

import (
	"context"
	"testing"

	modelchat "github.com/atelierlab/art-coach/backend/internal/model/chat"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
	chat "github.com/atelierlab/art-coach/backend/internal/service/chat"
)

func mustCoach(t *testing.T, id string) coach.Coach {
	t.Helper()
	store := coach.NewMemoryStore(coach.Seed())
	c, ok := store.FindByID(id)
	if !ok {
		t.Fatalf("seed coach %q missing", id)
	}
	return c
}

func TestCreateSessionSeedsSystemTurn(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	drawing := mustCoach(t, "drawing")

	session, err := svc.CreateSession(ctx, drawing, "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	history, err := svc.History(ctx, session.ID)
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 turn after create, got %d", len(history))
	}
	if history[0].Role != modelchat.RoleSystem {
		t.Fatalf("expected system turn first, got %s", history[0].Role)
	}
	if history[0].Text != drawing.Instruction {
		t.Fatalf("system turn does not carry coach instruction: %q", history[0].Text)
	}
}

func TestSwitchCoachResetsHistory(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	drawing := mustCoach(t, "drawing")
	color := mustCoach(t, "color")

	session, err := svc.CreateSession(ctx, drawing, "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	if _, err := svc.AppendUser(ctx, session.ID, "How do I fix proportions?"); err != nil {
		t.Fatalf("AppendUser err: %v", err)
	}
	if _, err := svc.AppendAssistant(ctx, session.ID, "Use grid guides.", ""); err != nil {
		t.Fatalf("AppendAssistant err: %v", err)
	}

	updated, switched, err := svc.SwitchCoach(ctx, session.ID, color)
	if err != nil {
		t.Fatalf("SwitchCoach err: %v", err)
	}
	if !switched {
		t.Fatal("expected switch to a different coach to reset")
	}
	if updated.CoachID != "color" {
		t.Fatalf("session coach not updated: %s", updated.CoachID)
	}

	history, err := svc.History(ctx, session.ID)
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected history reset to 1 turn, got %d", len(history))
	}
	if history[0].Role != modelchat.RoleSystem || history[0].Text != color.Instruction {
		t.Fatalf("expected single color-coach system turn, got %+v", history[0])
	}
}

func TestSwitchCoachSameCoachIsNoOp(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()
	drawing := mustCoach(t, "drawing")

	session, err := svc.CreateSession(ctx, drawing, "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if _, err := svc.AppendUser(ctx, session.ID, "hello"); err != nil {
		t.Fatalf("AppendUser err: %v", err)
	}

	_, switched, err := svc.SwitchCoach(ctx, session.ID, drawing)
	if err != nil {
		t.Fatalf("SwitchCoach err: %v", err)
	}
	if switched {
		t.Fatal("same-coach switch must not reset")
	}

	history, _ := svc.History(ctx, session.ID)
	if len(history) != 2 {
		t.Fatalf("history length changed on no-op switch: %d", len(history))
	}
}

func TestAppendUserRejectsBlankText(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, mustCoach(t, "general"), "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := svc.AppendUser(ctx, session.ID, text); err != chat.ErrEmptyMessage {
			t.Fatalf("expected ErrEmptyMessage for %q, got %v", text, err)
		}
	}

	history, _ := svc.History(ctx, session.ID)
	if len(history) != 1 {
		t.Fatalf("blank submissions must not grow history, got %d turns", len(history))
	}
}

func TestExchangeGrowsHistoryByTwo(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, mustCoach(t, "drawing"), "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	before, _ := svc.History(ctx, session.ID)
	if _, err := svc.AppendUser(ctx, session.ID, "How do I fix proportions?"); err != nil {
		t.Fatalf("AppendUser err: %v", err)
	}
	if _, err := svc.AppendAssistant(ctx, session.ID, "Use grid guides.", ""); err != nil {
		t.Fatalf("AppendAssistant err: %v", err)
	}

	after, _ := svc.History(ctx, session.ID)
	if len(after) != len(before)+2 {
		t.Fatalf("expected +2 turns per exchange, got %d -> %d", len(before), len(after))
	}
	if after[1].Role != modelchat.RoleUser || after[2].Role != modelchat.RoleAssistant {
		t.Fatalf("turns out of order: %s then %s", after[1].Role, after[2].Role)
	}
}

func TestAttachImageUpdatesExistingTurn(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, mustCoach(t, "texture"), "sk-test")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if _, err := svc.AppendUser(ctx, session.ID, "How do I paint fur?"); err != nil {
		t.Fatalf("AppendUser err: %v", err)
	}
	turn, err := svc.AppendAssistant(ctx, session.ID, "Layer short strokes.", "")
	if err != nil {
		t.Fatalf("AppendAssistant err: %v", err)
	}

	updated, err := svc.AttachImage(ctx, session.ID, turn.ID, "https://img.example/fur.png")
	if err != nil {
		t.Fatalf("AttachImage err: %v", err)
	}
	if updated.ID != turn.ID {
		t.Fatalf("image attached to a different turn: %s != %s", updated.ID, turn.ID)
	}
	if updated.Text != "Layer short strokes." {
		t.Fatalf("text lost when attaching image: %q", updated.Text)
	}

	history, _ := svc.History(ctx, session.ID)
	if len(history) != 3 {
		t.Fatalf("attaching an image must not append a turn, got %d", len(history))
	}
	if history[2].ImageURL != "https://img.example/fur.png" {
		t.Fatalf("stored turn missing image: %+v", history[2])
	}
}

func TestAttachImageToUserTurnFails(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, mustCoach(t, "drawing"), "sk-test")
	turn, err := svc.AppendUser(ctx, session.ID, "hello")
	if err != nil {
		t.Fatalf("AppendUser err: %v", err)
	}

	if _, err := svc.AttachImage(ctx, session.ID, turn.ID, "https://img.example/x.png"); err != chat.ErrTurnNotFound {
		t.Fatalf("expected ErrTurnNotFound, got %v", err)
	}
}

func TestTranscriptSkipsSystemTurn(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, mustCoach(t, "drawing"), "sk-test")
	svc.AppendUser(ctx, session.ID, "hi")
	svc.AppendAssistant(ctx, session.ID, "hello", "")

	transcript, err := svc.Transcript(ctx, session.ID)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("expected 2 renderable turns, got %d", len(transcript))
	}
	for _, turn := range transcript {
		if turn.Role == modelchat.RoleSystem {
			t.Fatal("system turn leaked into transcript")
		}
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.GetSession(context.Background(), "missing"); err != chat.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
