package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planner-backend/internal/academic"
	"planner-backend/internal/llm"
	"planner-backend/internal/shared/metrics"
	"planner-backend/internal/shared/telemetry"
)

// MessageBusy is the answer when every model failed. Nothing is stored.
const MessageBusy = "Maaf, semua server AI sedang sibuk. Coba lagi beberapa saat lagi."

const (
	contextFragments = 20
	chatTemperature  = 0.1
	maxQuestionLen   = 4000
)

// FragmentSource supplies retrieved document chunks for a question.
type FragmentSource interface {
	Fragments(ctx context.Context, userID, queryHint string, limit int) ([]academic.Fragment, error)
}

// Service answers plain chat questions.
type Service struct {
	Repo    Repo
	LLM     llm.Client
	Sources FragmentSource
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Answer is the result of one chat turn.
type Answer struct {
	Text   string
	Stored bool
}

// Ask answers a question with the user's documents as context and stores
// the turn. A retrieval failure answers without context.
func (s *Service) Ask(ctx context.Context, userID, sessionID, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("%w: message required", ErrInvalidInput)
	}
	if len(question) > maxQuestionLen {
		return Answer{}, fmt.Errorf("%w: message too long", ErrInvalidInput)
	}

	var docs []academic.Fragment
	if s.Sources != nil {
		var err error
		docs, err = s.Sources.Fragments(ctx, userID, question, contextFragments)
		if err != nil {
			telemetry.Warn("chat.fragments_degraded", map[string]any{
				"session_id": sessionID,
				"user_id":    userID,
				"error":      err,
			})
			docs = nil
		}
	}

	text, err := s.LLM.Complete(ctx, llm.Request{
		System:      llm.ChatSystemPrompt(),
		User:        llm.ChatUserPrompt(question, docs),
		Temperature: chatTemperature,
	})
	if err != nil {
		telemetry.Error("chat.answer_failed", map[string]any{
			"session_id": sessionID,
			"user_id":    userID,
			"error":      err,
		})
		return Answer{Text: MessageBusy}, nil
	}

	// v7 ids sort by creation, so equal created_at values keep insertion order.
	id, err := uuid.NewV7()
	if err != nil {
		return Answer{}, fmt.Errorf("new turn id: %w", err)
	}
	turn := Turn{
		ID:        id.String(),
		SessionID: sessionID,
		UserID:    userID,
		Question:  question,
		Answer:    text,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, turn); err != nil {
		return Answer{}, err
	}
	metrics.IncChatAnswer()
	return Answer{Text: text, Stored: true}, nil
}

// Turns lists a session's chat turns, oldest first.
func (s *Service) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.Repo.ListBySession(ctx, sessionID)
}
