package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelierlab/art-coach/backend/internal/model/chat"
	"github.com/atelierlab/art-coach/backend/internal/model/coach"
)

var (
	ErrCoachRequired   = errors.New("coach id is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrTurnNotFound    = errors.New("turn not found")
)

// Service owns the ordered turn history for each active session. History is
// append-only between coach switches; switching coaches discards it entirely.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]chat.Session
	histories map[string][]chat.Turn
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{
		sessions:  make(map[string]chat.Session),
		histories: make(map[string][]chat.Turn),
	}
}

// CreateSession provisions an anonymous session bound to a coach. The
// history starts as a single system turn carrying the coach instruction.
func (s *Service) CreateSession(_ context.Context, c coach.Coach, apiKey string) (chat.Session, error) {
	if c.ID == "" {
		return chat.Session{}, ErrCoachRequired
	}

	session := chat.Session{
		ID:        uuid.NewString(),
		CoachID:   c.ID,
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.histories[session.ID] = []chat.Turn{newTurn(session.ID, chat.SystemTurn(c.Instruction))}
	s.mu.Unlock()

	return session, nil
}

// SwitchCoach resets the session when the coach actually changes; switching
// to the already-active coach is a no-op. A reset discards every prior turn
// and reinitializes the history to one system turn. The returned bool
// reports whether a reset happened.
func (s *Service) SwitchCoach(_ context.Context, sessionID string, c coach.Coach) (chat.Session, bool, error) {
	if c.ID == "" {
		return chat.Session{}, false, ErrCoachRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, false, ErrSessionNotFound
	}
	if session.CoachID == c.ID {
		return session, false, nil
	}

	session.CoachID = c.ID
	s.sessions[sessionID] = session
	s.histories[sessionID] = []chat.Turn{newTurn(sessionID, chat.SystemTurn(c.Instruction))}
	return session, true, nil
}

// AppendUser appends a user turn. Blank submissions are rejected and leave
// the history untouched.
func (s *Service) AppendUser(_ context.Context, sessionID, text string) (chat.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Turn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return chat.Turn{}, ErrSessionNotFound
	}

	turn := newTurn(sessionID, chat.UserTurn(text))
	s.histories[sessionID] = append(s.histories[sessionID], turn)
	return turn, nil
}

// AppendAssistant appends an assistant turn carrying text, an image
// reference, or both.
func (s *Service) AppendAssistant(_ context.Context, sessionID, text, imageURL string) (chat.Turn, error) {
	candidate := chat.AssistantTurn(text, imageURL)
	if err := candidate.Validate(); err != nil {
		return chat.Turn{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return chat.Turn{}, ErrSessionNotFound
	}

	turn := newTurn(sessionID, candidate)
	s.histories[sessionID] = append(s.histories[sessionID], turn)
	return turn, nil
}

// AttachImage sets the image reference on an assistant turn that was already
// appended. It never creates a new turn; the turn's text stays as it was.
func (s *Service) AttachImage(_ context.Context, sessionID, turnID, imageURL string) (chat.Turn, error) {
	if imageURL == "" {
		return chat.Turn{}, chat.ErrEmptyTurn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[sessionID]
	if !ok {
		return chat.Turn{}, ErrSessionNotFound
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ID != turnID {
			continue
		}
		if history[i].Role != chat.RoleAssistant {
			return chat.Turn{}, ErrTurnNotFound
		}
		history[i].ImageURL = imageURL
		return history[i], nil
	}
	return chat.Turn{}, ErrTurnNotFound
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// History returns a copy of the full stored history, system turn included.
func (s *Service) History(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Turn, len(history))
	copy(copied, history)
	return copied, nil
}

// Transcript returns the renderable history: every turn except the system
// instruction, in chronological order.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	history, err := s.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	transcript := make([]chat.Turn, 0, len(history))
	for _, turn := range history {
		if turn.Role == chat.RoleSystem {
			continue
		}
		transcript = append(transcript, turn)
	}
	return transcript, nil
}

func newTurn(sessionID string, turn chat.Turn) chat.Turn {
	turn.ID = uuid.NewString()
	turn.SessionID = sessionID
	turn.CreatedAt = time.Now().UTC()
	return turn
}
