package planner

import "planner-backend/internal/academic"

// Meta tells the client how the turn's input was classified.
type Meta struct {
	Origin    EventType `json:"origin"`
	EventType EventType `json:"event_type"`
}

// TurnResponse is the wire shape of a planner turn.
type TurnResponse struct {
	SessionID        string                `json:"session_id"`
	Answer           string                `json:"answer"`
	CurrentStep      Step                  `json:"current_step"`
	PromptText       string                `json:"prompt_text"`
	Options          []Option              `json:"options"`
	AllowCustomInput bool                  `json:"allow_custom_input"`
	ProfileHints     academic.ProfileHints `json:"profile_hints"`
	PlannerWarning   *string               `json:"planner_warning"`
	Snapshot         State                 `json:"session_state_snapshot"`
	Meta             Meta                  `json:"meta"`
}

// NewTurnResponse renders a TurnResult. Rejected turns report their input
// origin as the event type even though no event was written.
func NewTurnResponse(r TurnResult) TurnResponse {
	options := r.Options()
	if options == nil {
		options = []Option{}
	}
	eventType := r.Event
	if eventType == "" {
		eventType = r.Origin
	}
	return TurnResponse{
		SessionID:        r.State.SessionID,
		Answer:           r.Answer,
		CurrentStep:      r.State.CurrentStep,
		PromptText:       r.Prompt,
		Options:          options,
		AllowCustomInput: r.AllowCustomInput(),
		ProfileHints:     r.Hints,
		PlannerWarning:   r.Hints.Warning,
		Snapshot:         r.State,
		Meta:             Meta{Origin: r.Origin, EventType: eventType},
	}
}
