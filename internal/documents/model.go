package documents

import "time"

// Document is a user's academic document whose text was extracted upstream.
type Document struct {
	ID        string
	UserID    string
	Title     string
	Embedded  bool
	CreatedAt time.Time
}

// Chunk is one overlapping window of a document's text.
type Chunk struct {
	ID         string
	DocumentID string
	UserID     string
	Seq        int
	Content    string
}

// ChunkHit is a chunk matched by a fragment search, with its document title.
type ChunkHit struct {
	Chunk
	Title string
	Rank  float64
}
