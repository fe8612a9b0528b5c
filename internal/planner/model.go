package planner

import (
	"time"

	"planner-backend/internal/academic"
)

// State is the durable planner snapshot of one session.
type State struct {
	SessionID      string             `json:"session_id"`
	UserID         string             `json:"user_id"`
	CurrentStep    Step               `json:"current_step"`
	Collected      map[string]string  `json:"collected"`
	DataLevel      academic.DataLevel `json:"data_level"`
	PendingOptions []Option           `json:"pending_options"`
	Plan           string             `json:"plan,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Clone returns a deep copy so an accepted turn never mutates its input.
func (s State) Clone() State {
	out := s
	out.Collected = make(map[string]string, len(s.Collected))
	for k, v := range s.Collected {
		out.Collected[k] = v
	}
	out.PendingOptions = append([]Option(nil), s.PendingOptions...)
	return out
}

// EventType classifies a history event.
type EventType string

const (
	EventStartAuto    EventType = "start_auto"
	EventOptionSelect EventType = "option_select"
	EventUserInput    EventType = "user_input"
	EventGenerate     EventType = "generate"
	EventSave         EventType = "save"
)

// Event is an append-only record of one accepted transition.
type Event struct {
	ID          int64          `json:"id"`
	SessionID   string         `json:"session_id"`
	UserID      string         `json:"user_id"`
	Type        EventType      `json:"event_type"`
	Step        Step           `json:"planner_step"`
	Text        string         `json:"text"`
	OptionID    *int           `json:"option_id,omitempty"`
	OptionLabel string         `json:"option_label,omitempty"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
}
