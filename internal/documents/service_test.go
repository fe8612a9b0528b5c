package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"planner-backend/internal/academic"
)

func newTestService() *Service {
	base := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	return &Service{
		Repo: NewMemoryRepo(),
		Now: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Minute)
		},
	}
}

func TestRegisterMarksEmbeddedOnlyWithText(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	withText, err := svc.Register(ctx, "u1", "Transkrip Nilai.pdf", "Program Studi Teknik Informatika")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !withText.Embedded {
		t.Fatalf("expected embedded document")
	}
	pending, err := svc.Register(ctx, "u1", "Jadwal.pdf", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pending.Embedded {
		t.Fatalf("expected title-only document to stay un-embedded")
	}

	titles, err := svc.Titles(ctx, "u1")
	if err != nil {
		t.Fatalf("titles: %v", err)
	}
	if len(titles) != 1 || titles[0] != "Transkrip Nilai.pdf" {
		t.Fatalf("unexpected titles: %v", titles)
	}
	all, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Jadwal.pdf" {
		t.Fatalf("expected newest first, got %+v", all)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "u1", "  ", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "", "t", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "u1", strings.Repeat("t", 300), "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHasEmbeddedDocumentIsUserScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "u1", "KHS.pdf", "nilai semester 3"); err != nil {
		t.Fatalf("register: %v", err)
	}

	ok, err := svc.HasEmbeddedDocument(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("expected u1 to have embedded document, got %v %v", ok, err)
	}
	ok, err = svc.HasEmbeddedDocument(ctx, "u2")
	if err != nil || ok {
		t.Fatalf("expected u2 to have none, got %v %v", ok, err)
	}
}

func TestFragmentsRankByTermOverlap(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	mustRegister(t, svc, "u1", "KHS.pdf", "Program studi Teknik Informatika semester 5")
	mustRegister(t, svc, "u1", "Catatan.pdf", "resep masakan")
	mustRegister(t, svc, "u1", "CV.pdf", "target karir software engineer")
	mustRegister(t, svc, "u2", "Lain.pdf", "program studi hukum semester 2")

	got, err := svc.Fragments(ctx, "u1", academic.ProfileQueryHint, 25)
	if err != nil {
		t.Fatalf("fragments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %+v", got)
	}
	if got[0].Source != "chunk:KHS.pdf" {
		t.Fatalf("expected KHS chunk first, got %s", got[0].Source)
	}
	if got[1].Source != "chunk:CV.pdf" {
		t.Fatalf("expected CV chunk second, got %s", got[1].Source)
	}

	limited, err := svc.Fragments(ctx, "u1", academic.ProfileQueryHint, 1)
	if err != nil {
		t.Fatalf("fragments: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

type stubRetriever struct {
	err error
}

func (s stubRetriever) Fragments(ctx context.Context, userID, queryHint string, limit int) ([]academic.Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []academic.Fragment{{Source: "chunk:vector", Text: "jurusan psikologi"}}, nil
}

func TestFragmentsPreferRetriever(t *testing.T) {
	svc := newTestService()
	svc.Retriever = stubRetriever{}
	got, err := svc.Fragments(context.Background(), "u1", "q", 5)
	if err != nil {
		t.Fatalf("fragments: %v", err)
	}
	if len(got) != 1 || got[0].Source != "chunk:vector" {
		t.Fatalf("unexpected fragments: %+v", got)
	}

	svc.Retriever = stubRetriever{err: errors.New("down")}
	if _, err := svc.Fragments(context.Background(), "u1", "q", 5); err == nil {
		t.Fatalf("expected retriever error to surface")
	}
}

func TestQueryTerms(t *testing.T) {
	got := QueryTerms("Program studi, PRODI; program a")
	want := []string{"program", "studi", "prodi"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func mustRegister(t *testing.T, svc *Service, user, title, text string) {
	t.Helper()
	if _, err := svc.Register(context.Background(), user, title, text); err != nil {
		t.Fatalf("register %s: %v", title, err)
	}
}
