package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	docs   map[string][]Document // userID -> documents
	chunks map[string][]Chunk    // documentID -> chunks
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		docs:   make(map[string][]Document),
		chunks: make(map[string][]Chunk),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document, chunks []Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.UserID] = append(r.docs[doc.UserID], doc)
	r.chunks[doc.ID] = append([]Chunk(nil), chunks...)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, embeddedOnly bool) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	userDocs := r.docs[userID]
	out := make([]Document, 0, len(userDocs))
	for _, d := range userDocs {
		if embeddedOnly && !d.Embedded {
			continue
		}
		out = append(out, d)
	}
	r.mu.RUnlock()

	// Newest first; insertion order breaks equal timestamps.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) HasEmbedded(ctx context.Context, userID string) (bool, error) {
	docs, err := r.ListByUser(ctx, userID, true)
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// SearchChunks ranks chunks by how many distinct terms they contain.
func (r *MemoryRepo) SearchChunks(ctx context.Context, userID string, terms []string, limit int) ([]ChunkHit, error) {
	docs, err := r.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []ChunkHit
	for _, d := range docs {
		for _, c := range r.chunks[d.ID] {
			low := strings.ToLower(c.Content)
			score := 0
			for _, term := range terms {
				if strings.Contains(low, term) {
					score++
				}
			}
			if score == 0 {
				continue
			}
			hits = append(hits, ChunkHit{Chunk: c, Title: d.Title, Rank: float64(score)})
		}
	}
	// docs are newest first, so a stable sort keeps recency and chunk order on ties.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Rank > hits[j].Rank
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
