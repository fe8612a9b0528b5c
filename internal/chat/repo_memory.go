package chat

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	turns map[string][]Turn // sessionID -> turns
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{turns: make(map[string][]Turn)}
}

func (r *MemoryRepo) Create(ctx context.Context, t Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[t.SessionID] = append(r.turns[t.SessionID], t)
	return nil
}

func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := append([]Turn(nil), r.turns[sessionID]...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
