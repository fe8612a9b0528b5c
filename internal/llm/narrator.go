package llm

import (
	"context"

	"planner-backend/internal/academic"
)

const narratorTemperature = 0.1

// Narrator renders study plans through a completion client.
type Narrator struct {
	Client Client
}

func NewNarrator(client Client) *Narrator {
	return &Narrator{Client: client}
}

func (n *Narrator) Render(ctx context.Context, fields map[string]string, rescue academic.GradeRescueData, docs []academic.Fragment) (string, error) {
	return n.Client.Complete(ctx, Request{
		User:        PlannerPrompt(fields, rescue, docs),
		Temperature: narratorTemperature,
	})
}
