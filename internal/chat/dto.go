package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	ModeChat    = "chat"
	ModePlanner = "planner"
)

// SessionRef accepts a session id sent either as a JSON string or a JSON integer.
type SessionRef string

func (r *SessionRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = SessionRef(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("session_id must be a string or an integer")
	}
	*r = SessionRef(strconv.FormatInt(n, 10))
	return nil
}

type chatRequest struct {
	SessionID SessionRef `json:"session_id"`
	Mode      string     `json:"mode" binding:"omitempty,oneof=planner chat"`
	Message   string     `json:"message" binding:"max=4000"`
	OptionID  *int       `json:"option_id"`
}

// ChatResponse is the wire shape of a plain chat turn.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}
