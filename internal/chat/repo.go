package chat

import "context"

// Repo persists chat turns.
type Repo interface {
	Create(ctx context.Context, t Turn) error
	ListBySession(ctx context.Context, sessionID string) ([]Turn, error)
}
