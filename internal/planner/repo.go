package planner

import "context"

// HistoryStore persists planner state and its append-only history.
// Commit must write the state and the event together or not at all.
type HistoryStore interface {
	Latest(ctx context.Context, sessionID string) (State, error)
	Commit(ctx context.Context, state State, event *Event) error
	Append(ctx context.Context, event *Event) error
	ListEvents(ctx context.Context, sessionID string) ([]Event, error)
}
