package chat

import "testing"

func TestTurnValidate(t *testing.T) {
	cases := []struct {
		name    string
		turn    Turn
		wantErr bool
	}{
		{name: "system with instruction", turn: SystemTurn("You are a coach."), wantErr: false},
		{name: "system without instruction", turn: SystemTurn(""), wantErr: true},
		{name: "user with text", turn: UserTurn("How do I mix greens?"), wantErr: false},
		{name: "user without text", turn: UserTurn(""), wantErr: true},
		{name: "assistant text only", turn: AssistantTurn("Use grid guides.", ""), wantErr: false},
		{name: "assistant image only", turn: AssistantTurn("", "https://img.example/1.png"), wantErr: false},
		{name: "assistant with both", turn: AssistantTurn("Here.", "https://img.example/1.png"), wantErr: false},
		{name: "assistant with neither", turn: AssistantTurn("", ""), wantErr: true},
		{name: "unknown role", turn: Turn{Role: Role("moderator"), Text: "hi"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.turn.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
