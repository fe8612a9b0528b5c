package bootstrap

import (
	"context"

	"planner-backend/internal/chat"
	"planner-backend/internal/planner"
	"planner-backend/internal/sessions"
)

type chatHistory struct {
	svc *chat.Service
}

func (h chatHistory) ListTurns(ctx context.Context, sessionID string) ([]sessions.ChatTurn, error) {
	turns, err := h.svc.Turns(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]sessions.ChatTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, sessions.ChatTurn{
			ID:        t.ID,
			Question:  t.Question,
			Answer:    t.Answer,
			CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}

type plannerHistory struct {
	svc *planner.Service
}

func (h plannerHistory) ListMilestones(ctx context.Context, sessionID string) ([]sessions.Milestone, error) {
	events, err := h.svc.Events(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]sessions.Milestone, 0, len(events))
	for _, e := range events {
		out = append(out, sessions.Milestone{
			ID:          e.ID,
			EventType:   string(e.Type),
			Step:        string(e.Step),
			Text:        e.Text,
			OptionID:    e.OptionID,
			OptionLabel: e.OptionLabel,
			Payload:     e.Payload,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}
