package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const maxSessionIDLen = 128

// Service resolves session ownership.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// DefaultSessionID is the session used when a request names none.
func DefaultSessionID(userID string) string {
	return "default:" + userID
}

// Ensure returns the caller's session, creating it on first use. An empty
// id selects the caller's default session. A session owned by someone else
// is reported as not found.
func (s *Service) Ensure(ctx context.Context, userID, sessionID string) (Session, error) {
	if userID == "" {
		return Session{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	sessionID = strings.TrimSpace(sessionID)
	if len(sessionID) > maxSessionIDLen {
		return Session{}, fmt.Errorf("%w: session id too long", ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = DefaultSessionID(userID)
	}

	now := s.now()
	sess, err := s.Repo.Create(ctx, Session{ID: sessionID, UserID: userID, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return Session{}, err
	}
	if sess.UserID != userID {
		return Session{}, ErrNotFound
	}
	if sess.UpdatedAt.Before(now) {
		if err := s.Repo.Touch(ctx, sess.ID, now); err != nil {
			return Session{}, err
		}
		sess.UpdatedAt = now
	}
	return sess, nil
}

// Get returns an existing session owned by userID.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (Session, error) {
	sess, err := s.Repo.Get(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return Session{}, err
	}
	if sess.UserID != userID {
		return Session{}, ErrNotFound
	}
	return sess, nil
}
