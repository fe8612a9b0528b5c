package qdrant

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vec, s.err
}

type stubQuerier struct {
	req    *pb.QueryPoints
	points []*pb.ScoredPoint
	err    error
}

func (s *stubQuerier) Query(ctx context.Context, req *pb.QueryPoints) ([]*pb.ScoredPoint, error) {
	s.req = req
	return s.points, s.err
}

func point(payload map[string]*pb.Value) *pb.ScoredPoint {
	return &pb.ScoredPoint{Payload: payload, Score: 0.8}
}

func TestFragmentsScopesQueryToUser(t *testing.T) {
	q := &stubQuerier{points: []*pb.ScoredPoint{
		point(map[string]*pb.Value{"content": pb.NewValueString("Program Studi: Informatika"), "source": pb.NewValueString("KHS.pdf#p1")}),
		point(map[string]*pb.Value{"content": pb.NewValueString("  "), "source": pb.NewValueString("blank")}),
		point(map[string]*pb.Value{"content": pb.NewValueString("Semester 5"), "title": pb.NewValueString("KRS.pdf")}),
	}}
	src := &Source{Client: q, Embedder: stubEmbedder{vec: []float32{0.1, 0.2}}, Collection: "academic_docs", ScoreThreshold: 0.35}

	got, err := src.Fragments(context.Background(), "u1", "semester", 7)
	if err != nil {
		t.Fatalf("Fragments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %#v", got)
	}
	if got[0].Source != "KHS.pdf#p1" || got[1].Source != "chunk:KRS.pdf" {
		t.Fatalf("unexpected sources %#v", got)
	}

	if q.req.GetCollectionName() != "academic_docs" || q.req.GetLimit() != 7 {
		t.Fatalf("unexpected request %v", q.req)
	}
	if q.req.GetScoreThreshold() != float32(0.35) {
		t.Fatalf("score threshold not set")
	}
	field := q.req.GetFilter().GetMust()[0].GetField()
	if field.GetKey() != "user_id" || field.GetMatch().GetKeyword() != "u1" {
		t.Fatalf("user filter missing: %v", field)
	}
}

func TestFragmentsPropagatesFailures(t *testing.T) {
	src := &Source{Client: &stubQuerier{}, Embedder: stubEmbedder{err: errors.New("embed down")}, Collection: "c"}
	if _, err := src.Fragments(context.Background(), "u1", "q", 5); err == nil {
		t.Fatalf("expected embed error")
	}

	src = &Source{Client: &stubQuerier{err: errors.New("unavailable")}, Embedder: stubEmbedder{vec: []float32{1}}, Collection: "c"}
	if _, err := src.Fragments(context.Background(), "u1", "q", 5); err == nil {
		t.Fatalf("expected query error")
	}
}
