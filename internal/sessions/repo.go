package sessions

import (
	"context"
	"time"
)

// Repo persists sessions.
type Repo interface {
	// Create stores s unless a session with the same id exists, and returns
	// whichever session is stored afterwards.
	Create(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
}
