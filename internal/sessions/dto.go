package sessions

import "time"

type HistoryItem struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	History   []HistoryItem `json:"history"`
}

type TimelineResponse struct {
	SessionID string          `json:"session_id"`
	Timeline  []TimelineEntry `json:"timeline"`
}
