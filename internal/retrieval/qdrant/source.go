package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pb "github.com/qdrant/go-client/qdrant"

	"planner-backend/internal/academic"
	"planner-backend/internal/llm"
)

const (
	payloadUserID  = "user_id"
	payloadContent = "content"
	payloadSource  = "source"
	payloadTitle   = "title"
)

// Querier is the subset of the qdrant client used here.
type Querier interface {
	Query(ctx context.Context, request *pb.QueryPoints) ([]*pb.ScoredPoint, error)
}

// Config selects the collection and filtering.
type Config struct {
	Host           string
	Port           int
	Collection     string
	ScoreThreshold float32
}

// Source returns user-scoped chunks by similarity to the query hint.
type Source struct {
	Client         Querier
	Embedder       llm.Embedder
	Collection     string
	ScoreThreshold float32
}

// Dial connects to qdrant over gRPC.
func Dial(cfg Config, embedder llm.Embedder) (*Source, error) {
	if cfg.Collection == "" {
		return nil, errors.New("qdrant collection is required")
	}
	client, err := pb.NewClient(&pb.Config{Host: cfg.Host, Port: cfg.Port})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	return &Source{Client: client, Embedder: embedder, Collection: cfg.Collection, ScoreThreshold: cfg.ScoreThreshold}, nil
}

func (s *Source) Fragments(ctx context.Context, userID, queryHint string, limit int) ([]academic.Fragment, error) {
	if limit <= 0 {
		limit = academic.DefaultFragmentLimit
	}
	vec, err := s.Embedder.Embed(ctx, queryHint)
	if err != nil {
		return nil, err
	}
	lim := uint64(limit)
	req := &pb.QueryPoints{
		CollectionName: s.Collection,
		Query:          pb.NewQuery(vec...),
		WithPayload:    pb.NewWithPayload(true),
		Limit:          &lim,
		Filter: &pb.Filter{
			Must: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_Field{
						Field: &pb.FieldCondition{
							Key: payloadUserID,
							Match: &pb.Match{
								MatchValue: &pb.Match_Keyword{Keyword: userID},
							},
						},
					},
				},
			},
		},
	}
	if s.ScoreThreshold > 0 {
		thr := s.ScoreThreshold
		req.ScoreThreshold = &thr
	}

	points, err := s.Client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}
	out := make([]academic.Fragment, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		text := strings.TrimSpace(payload[payloadContent].GetStringValue())
		if text == "" {
			continue
		}
		out = append(out, academic.Fragment{Source: sourceOf(payload), Text: text})
	}
	return out, nil
}

func sourceOf(payload map[string]*pb.Value) string {
	if s := payload[payloadSource].GetStringValue(); s != "" {
		return s
	}
	if t := payload[payloadTitle].GetStringValue(); t != "" {
		return "chunk:" + t
	}
	return "chunk"
}
