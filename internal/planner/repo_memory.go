package planner

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory HistoryStore.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
	events map[string][]Event
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]State),
		events: make(map[string][]Event),
	}
}

func (s *MemoryStore) Latest(ctx context.Context, sessionID string) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[sessionID]
	if !ok {
		return State{}, ErrNotFound
	}
	return st.Clone(), nil
}

func (s *MemoryStore) Commit(ctx context.Context, state State, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}
	s.states[state.SessionID] = state.Clone()
	if event != nil {
		if event.CreatedAt.IsZero() {
			event.CreatedAt = state.UpdatedAt
		}
		s.appendLocked(event)
	}
	return nil
}

// Append records an event without touching the state.
func (s *MemoryStore) Append(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(event)
	return nil
}

func (s *MemoryStore) appendLocked(event *Event) {
	s.nextID++
	event.ID = s.nextID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	s.events[event.SessionID] = append(s.events[event.SessionID], *event)
}

func (s *MemoryStore) ListEvents(ctx context.Context, sessionID string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]Event(nil), s.events[sessionID]...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
