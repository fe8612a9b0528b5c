package chat

import "time"

// Turn is one stored question and answer in plain chat mode.
type Turn struct {
	ID        string
	SessionID string
	UserID    string
	Question  string
	Answer    string
	CreatedAt time.Time
}
