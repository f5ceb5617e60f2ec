package chat

import (
	"errors"
	"time"
)

// Role tags which party authored a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrEmptyText = errors.New("turn text must not be empty")
	ErrEmptyTurn = errors.New("assistant turn needs text or an image")
)

// Turn is one message unit in a conversation. A system turn carries the
// coach instruction and is never rendered; an assistant turn carries text,
// an image reference, or both.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Text      string    `json:"text,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SystemTurn builds the priming turn that opens every history.
func SystemTurn(instruction string) Turn {
	return Turn{Role: RoleSystem, Text: instruction}
}

// UserTurn builds a user-authored turn.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// AssistantTurn builds an assistant turn; either field may be empty but
// not both.
func AssistantTurn(text, imageURL string) Turn {
	return Turn{Role: RoleAssistant, Text: text, ImageURL: imageURL}
}

// Validate enforces the per-role content invariants.
func (t Turn) Validate() error {
	switch t.Role {
	case RoleSystem, RoleUser:
		if t.Text == "" {
			return ErrEmptyText
		}
		return nil
	case RoleAssistant:
		if t.Text == "" && t.ImageURL == "" {
			return ErrEmptyTurn
		}
		return nil
	default:
		return errors.New("unknown turn role")
	}
}
