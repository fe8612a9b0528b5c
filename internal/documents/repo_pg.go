package documents

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"planner-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, doc Document, chunks []Chunk) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const insertDoc = `
INSERT INTO documents (id, user_id, title, embedded, created_at)
VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, insertDoc, doc.ID, doc.UserID, doc.Title, doc.Embedded, doc.CreatedAt); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		const insertChunk = `
INSERT INTO document_chunks (id, document_id, user_id, seq, content)
VALUES ($1, $2, $3, $4, $5)`
		for _, c := range chunks {
			if _, err := tx.ExecContext(ctx, insertChunk, c.ID, c.DocumentID, c.UserID, c.Seq, c.Content); err != nil {
				return fmt.Errorf("insert chunk %d: %w", c.Seq, err)
			}
		}
		return nil
	})
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, embeddedOnly bool) ([]Document, error) {
	const query = `
SELECT id, user_id, title, embedded, created_at
FROM documents
WHERE user_id = $1 AND ($2 = FALSE OR embedded = TRUE)
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID, embeddedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Embedded, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *PGRepo) HasEmbedded(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM documents WHERE user_id = $1 AND embedded = TRUE)`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// SearchChunks uses the simple text search configuration with OR-joined terms.
func (r *PGRepo) SearchChunks(ctx context.Context, userID string, terms []string, limit int) ([]ChunkHit, error) {
	if len(terms) == 0 {
		return []ChunkHit{}, nil
	}
	const query = `
SELECT c.id, c.document_id, c.user_id, c.seq, c.content, d.title,
       ts_rank(to_tsvector('simple', c.content), to_tsquery('simple', $2)) AS rank
FROM document_chunks c
JOIN documents d ON d.id = c.document_id
WHERE c.user_id = $1
  AND d.embedded = TRUE
  AND to_tsvector('simple', c.content) @@ to_tsquery('simple', $2)
ORDER BY rank DESC, d.created_at DESC, c.seq ASC
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, strings.Join(terms, " | "), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := []ChunkHit{}
	for rows.Next() {
		var h ChunkHit
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.UserID, &h.Seq, &h.Content, &h.Title, &h.Rank); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
