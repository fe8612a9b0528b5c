package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planner-backend/internal/academic"
	"planner-backend/internal/shared/metrics"
	"planner-backend/internal/shared/telemetry"
)

// MessageBusy is returned in place of a plan when the narrator fails.
const MessageBusy = "Maaf, semua server AI sedang sibuk. Rencana belum bisa disusun, coba pilih Susun ulang rencana beberapa saat lagi."

// HintSource recomputes profile hints for a user on every turn.
type HintSource interface {
	Hints(ctx context.Context, userID string) (academic.ProfileHints, academic.Evidence, error)
}

// DocumentGate answers whether a user has at least one processed document.
type DocumentGate interface {
	HasEmbeddedDocument(ctx context.Context, userID string) (bool, error)
}

// PlanNarrator turns collected fields into a human-readable plan. Its
// output is passed through untouched.
type PlanNarrator interface {
	Render(ctx context.Context, fields map[string]string, rescue academic.GradeRescueData, docs []academic.Fragment) (string, error)
}

// Service runs one planner turn per call.
type Service struct {
	Store    HistoryStore
	Hints    HintSource
	Gate     DocumentGate
	Narrator PlanNarrator
	Machine  Machine
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// TurnInput is one planner request after transport validation.
type TurnInput struct {
	SessionID string
	UserID    string
	Message   string
	OptionID  *int
}

// TurnResult is everything a transport needs to render a planner turn.
type TurnResult struct {
	State    State
	Hints    academic.ProfileHints
	Prompt   string
	Answer   string
	Accepted bool
	Reason   Reason
	Origin   EventType
	Event    EventType
}

// Options returns the options offered at the result's step.
func (r TurnResult) Options() []Option {
	return r.State.PendingOptions
}

// AllowCustomInput reports whether free text is accepted at the result's step.
func (r TurnResult) AllowCustomInput() bool {
	return AllowsCustomInput(r.State.CurrentStep)
}

// Turn loads the latest state, applies the answer and commits the
// resulting state and event together. The first turn of a session starts
// the planner and ignores the message.
func (s *Service) Turn(ctx context.Context, in TurnInput) (TurnResult, error) {
	if in.SessionID == "" || in.UserID == "" {
		return TurnResult{}, fmt.Errorf("%w: session and user required", ErrInvalidInput)
	}
	metrics.IncPlannerTurn()

	hints, ev, err := s.Hints.Hints(ctx, in.UserID)
	if err != nil {
		return TurnResult{}, err
	}
	if ev.Degraded {
		metrics.IncFragmentsDegraded()
	}
	level := academic.DetectDataLevel(ev.Titles)
	env := Env{Hints: hints}
	if s.Gate != nil {
		has, err := s.Gate.HasEmbeddedDocument(ctx, in.UserID)
		if err != nil {
			return TurnResult{}, err
		}
		env.HasEmbeddedDocument = has
	}

	state, err := s.Store.Latest(ctx, in.SessionID)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.start(ctx, in, level, env)
	case err != nil:
		return TurnResult{}, err
	case state.UserID != in.UserID:
		return TurnResult{}, ErrNotFound
	}
	state.DataLevel = level

	out, err := s.Machine.Advance(state, Answer{Message: in.Message, OptionID: in.OptionID}, env)
	if err != nil {
		return TurnResult{}, err
	}
	if !out.Accepted {
		metrics.IncPlannerRejection()
		s.logTurn(in, out)
		st := out.State.Clone()
		st.PendingOptions = BuildOptions(st.CurrentStep, hints)
		answer := out.Message + "\n\n" + Prompt(st)
		if out.Reason == ReasonTerminal {
			answer = strings.TrimSpace(out.Message + "\n\n" + Summary(st))
		}
		return TurnResult{
			State:  st,
			Hints:  hints,
			Prompt: Prompt(st),
			Answer: answer,
			Reason: out.Reason,
			Origin: out.Origin,
		}, nil
	}

	next := out.State
	next.UpdatedAt = s.now()
	event := &Event{
		SessionID: in.SessionID,
		UserID:    in.UserID,
		Type:      out.Event,
		Step:      out.From,
		Text:      strings.TrimSpace(in.Message),
		Payload: map[string]any{
			"to_step":   string(next.CurrentStep),
			"value":     out.Value,
			"collected": copyFields(next.Collected),
		},
		CreatedAt: next.UpdatedAt,
	}
	if out.Selected != nil {
		id := out.Selected.ID
		event.OptionID = &id
		event.OptionLabel = out.Selected.Label
	}

	answer := Prompt(next)
	if next.CurrentStep == StepGenerate {
		plan, ok := s.narrate(ctx, in, next, ev)
		if ok {
			next.Plan = plan
			event.Payload["plan"] = plan
			answer = plan + "\n\n" + Prompt(next)
		} else {
			event.Payload["narrator_failed"] = true
			answer = MessageBusy + "\n\n" + Prompt(next)
		}
	}
	if next.CurrentStep == StepSave {
		answer = strings.TrimSpace(Prompt(next) + "\n\n" + Summary(next))
	}

	if err := s.Store.Commit(ctx, next, event); err != nil {
		return TurnResult{}, err
	}
	metrics.IncPlannerTransition()
	s.logTurn(in, out)

	return TurnResult{
		State:    next,
		Hints:    hints,
		Prompt:   Prompt(next),
		Answer:   answer,
		Accepted: true,
		Origin:   out.Origin,
		Event:    out.Event,
	}, nil
}

func (s *Service) start(ctx context.Context, in TurnInput, level academic.DataLevel, env Env) (TurnResult, error) {
	st := s.Machine.Start(in.SessionID, in.UserID, level, env)
	st.UpdatedAt = s.now()
	event := &Event{
		SessionID: in.SessionID,
		UserID:    in.UserID,
		Type:      EventStartAuto,
		Step:      st.CurrentStep,
		Payload: map[string]any{
			"data_level": level.Level,
			"collected":  copyFields(st.Collected),
		},
		CreatedAt: st.UpdatedAt,
	}
	if err := s.Store.Commit(ctx, st, event); err != nil {
		return TurnResult{}, err
	}
	metrics.IncPlannerTransition()
	telemetry.Info("planner.turn", map[string]any{
		"session_id": in.SessionID,
		"user_id":    in.UserID,
		"to_step":    string(st.CurrentStep),
		"event_type": string(EventStartAuto),
		"data_level": level.Level,
		"accepted":   true,
	})
	return TurnResult{
		State:    st,
		Hints:    env.Hints,
		Prompt:   Prompt(st),
		Answer:   Prompt(st),
		Accepted: true,
		Origin:   EventStartAuto,
		Event:    EventStartAuto,
	}, nil
}

func (s *Service) narrate(ctx context.Context, in TurnInput, st State, ev academic.Evidence) (string, bool) {
	if s.Narrator == nil {
		metrics.IncNarratorFailure()
		telemetry.Warn("planner.narrator_failed", map[string]any{
			"session_id": in.SessionID,
			"user_id":    in.UserID,
			"error":      "narrator not configured",
		})
		return "", false
	}
	started := time.Now()
	plan, err := s.Narrator.Render(ctx, copyFields(st.Collected), academic.GradeRescue(ev.Fragments), ev.Fragments)
	metrics.ObserveNarratorDurationMs(float64(time.Since(started).Milliseconds()))
	if err == nil {
		plan = strings.TrimSpace(plan)
	}
	if err != nil || plan == "" {
		if err == nil {
			err = errors.New("empty plan")
		}
		metrics.IncNarratorFailure()
		telemetry.Error("planner.narrator_failed", map[string]any{
			"session_id": in.SessionID,
			"user_id":    in.UserID,
			"error":      err,
		})
		return "", false
	}
	return plan, true
}

func (s *Service) logTurn(in TurnInput, out Outcome) {
	fields := map[string]any{
		"session_id": in.SessionID,
		"user_id":    in.UserID,
		"from_step":  string(out.From),
		"to_step":    string(out.State.CurrentStep),
		"origin":     string(out.Origin),
		"event_type": string(out.Event),
		"accepted":   out.Accepted,
	}
	if out.Reason != ReasonNone {
		fields["reason"] = string(out.Reason)
	}
	telemetry.Info("planner.turn", fields)
}

// Events returns the session's planner history, oldest first.
func (s *Service) Events(ctx context.Context, sessionID string) ([]Event, error) {
	return s.Store.ListEvents(ctx, sessionID)
}

func copyFields(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
