package sessions

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{sessions: make(map[string]Session)}
}

func (r *MemoryRepo) Create(ctx context.Context, s Session) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[s.ID]; ok {
		return existing, nil
	}
	r.sessions[s.ID] = s
	return s, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.UpdatedAt = at
	r.sessions[id] = s
	return nil
}
