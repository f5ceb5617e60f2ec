package chat

import "time"

// Session captures a transient anonymous conversation bound to a coach.
// The API key lives only in memory for the session's lifetime and is never
// serialized.
type Session struct {
	ID        string    `json:"id"`
	CoachID   string    `json:"coachId"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
