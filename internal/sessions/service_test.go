package sessions

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEnsureCreatesAndReusesSession(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	sess, err := svc.Ensure(ctx, "u1", "99999")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if sess.ID != "99999" || sess.UserID != "u1" {
		t.Fatalf("unexpected session %#v", sess)
	}
	again, err := svc.Ensure(ctx, "u1", "99999")
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if !again.CreatedAt.Equal(sess.CreatedAt) {
		t.Fatalf("session recreated")
	}
}

func TestEnsureEmptyIDUsesDefaultSession(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()
	first, err := svc.Ensure(ctx, "u1", "  ")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if first.ID != "default:u1" {
		t.Fatalf("unexpected default id %q", first.ID)
	}
	second, err := svc.Ensure(ctx, "u1", "")
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("default session changed: %q vs %q", second.ID, first.ID)
	}
	other, err := svc.Ensure(ctx, "u2", "")
	if err != nil {
		t.Fatalf("Ensure other user: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("default sessions shared across users")
	}
}

func TestEnsureRejectsOtherOwner(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()
	if _, err := svc.Ensure(ctx, "u1", "s1"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := svc.Ensure(ctx, "u2", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, "u2", "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
}

func TestEnsureValidatesInput(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()
	if _, err := svc.Ensure(ctx, "", "s1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}
	if _, err := svc.Ensure(ctx, "u1", strings.Repeat("x", 129)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long id, got %v", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	if _, err := svc.Get(context.Background(), "u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
