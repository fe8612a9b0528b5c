package sessions

import "time"

// Session is a conversation owned by exactly one user.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
