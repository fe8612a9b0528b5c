package documents

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"planner-backend/internal/academic"
)

const maxTitleLen = 255

// ChunkRetriever is an alternate fragment source, e.g. a vector index.
type ChunkRetriever interface {
	Fragments(ctx context.Context, userID, queryHint string, limit int) ([]academic.Fragment, error)
}

// Service contains business logic for documents. It is the planner's
// DocumentTextSource and DocumentGate.
type Service struct {
	Repo Repo
	// Retriever, when set, replaces term search for Fragments.
	Retriever ChunkRetriever
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Register records a document and its chunked text. A document without any
// text is stored as not yet embedded.
func (s *Service) Register(ctx context.Context, userID, title, text string) (Document, error) {
	title = strings.TrimSpace(title)
	if userID == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if title == "" || len(title) > maxTitleLen {
		return Document{}, fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidInput, maxTitleLen)
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: s.now(),
	}
	pieces := SplitText(text, chunkSize, chunkOverlap)
	chunks := make([]Chunk, 0, len(pieces))
	for i, p := range pieces {
		chunks = append(chunks, Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			UserID:     userID,
			Seq:        i,
			Content:    p,
		})
	}
	doc.Embedded = len(chunks) > 0

	if err := s.Repo.Create(ctx, doc, chunks); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// List returns all of a user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID, false)
}

// Titles returns embedded document titles, newest first.
func (s *Service) Titles(ctx context.Context, userID string) ([]string, error) {
	docs, err := s.Repo.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(docs))
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	return titles, nil
}

// Fragments returns user-scoped chunks relevant to queryHint.
func (s *Service) Fragments(ctx context.Context, userID, queryHint string, limit int) ([]academic.Fragment, error) {
	if s.Retriever != nil {
		return s.Retriever.Fragments(ctx, userID, queryHint, limit)
	}
	hits, err := s.Repo.SearchChunks(ctx, userID, QueryTerms(queryHint), limit)
	if err != nil {
		return nil, err
	}
	out := make([]academic.Fragment, 0, len(hits))
	for _, h := range hits {
		out = append(out, academic.Fragment{Source: "chunk:" + h.Title, Text: h.Content})
	}
	return out, nil
}

func (s *Service) HasEmbeddedDocument(ctx context.Context, userID string) (bool, error) {
	return s.Repo.HasEmbedded(ctx, userID)
}

// QueryTerms lowercases and splits a query into unique alphanumeric terms.
func QueryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
