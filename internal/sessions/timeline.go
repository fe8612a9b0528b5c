package sessions

import (
	"sort"
	"time"
)

// EntryKind classifies a timeline entry.
type EntryKind string

const (
	KindChatUser         EntryKind = "chat_user"
	KindChatAssistant    EntryKind = "chat_assistant"
	KindPlannerMilestone EntryKind = "planner_milestone"
)

// ChatTurn is one stored question and answer.
type ChatTurn struct {
	ID        string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Milestone is one planner history event.
type Milestone struct {
	ID          int64
	EventType   string
	Step        string
	Text        string
	OptionID    *int
	OptionLabel string
	Payload     map[string]any
	CreatedAt   time.Time
}

// TimelineEntry is one chronologically placed unit of the merged feed.
type TimelineEntry struct {
	Kind      EntryKind      `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// Merge combines chat turns and planner milestones, each already ordered
// by creation time then id, into one feed ordered by timestamp. A chat
// turn expands to a user entry followed by an assistant entry. On equal
// timestamps chat entries precede milestones and each source keeps its
// own order.
func Merge(chat []ChatTurn, planner []Milestone) []TimelineEntry {
	out := make([]TimelineEntry, 0, 2*len(chat)+len(planner))
	for _, t := range chat {
		out = append(out,
			TimelineEntry{
				Kind:      KindChatUser,
				Timestamp: t.CreatedAt,
				Payload:   map[string]any{"turn_id": t.ID, "text": t.Question},
			},
			TimelineEntry{
				Kind:      KindChatAssistant,
				Timestamp: t.CreatedAt,
				Payload:   map[string]any{"turn_id": t.ID, "text": t.Answer},
			},
		)
	}
	for _, m := range planner {
		payload := map[string]any{
			"event_id":     m.ID,
			"event_type":   m.EventType,
			"planner_step": m.Step,
			"text":         m.Text,
			"payload":      m.Payload,
		}
		if m.OptionID != nil {
			payload["option_id"] = *m.OptionID
			payload["option_label"] = m.OptionLabel
		}
		out = append(out, TimelineEntry{Kind: KindPlannerMilestone, Timestamp: m.CreatedAt, Payload: payload})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
