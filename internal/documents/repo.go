package documents

import "context"

// Repo defines persistence operations for documents and their chunks.
type Repo interface {
	// Create stores the document and its chunks atomically.
	Create(ctx context.Context, doc Document, chunks []Chunk) error
	// ListByUser returns documents newest first.
	ListByUser(ctx context.Context, userID string, embeddedOnly bool) ([]Document, error)
	HasEmbedded(ctx context.Context, userID string) (bool, error)
	// SearchChunks returns the user's embedded chunks sharing at least one term.
	SearchChunks(ctx context.Context, userID string, terms []string, limit int) ([]ChunkHit, error)
}
