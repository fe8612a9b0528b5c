package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"planner-backend/internal/shared/storage/db"
)

// PGStore implements HistoryStore using Postgres.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Latest(ctx context.Context, sessionID string) (State, error) {
	const query = `
SELECT state, updated_at
FROM planner_states
WHERE session_id = $1`
	var raw []byte
	var updated time.Time
	if err := s.DB.QueryRowContext(ctx, query, sessionID).Scan(&raw, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrNotFound
		}
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode planner state: %w", err)
	}
	if st.Collected == nil {
		st.Collected = map[string]string{}
	}
	st.UpdatedAt = updated
	return st, nil
}

func (s *PGStore) Commit(ctx context.Context, state State, event *Event) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode planner state: %w", err)
	}
	return db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		const upsert = `
INSERT INTO planner_states (session_id, user_id, state, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id) DO UPDATE
SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
		if _, err := tx.ExecContext(ctx, upsert, state.SessionID, state.UserID, raw, state.UpdatedAt); err != nil {
			return fmt.Errorf("upsert planner state: %w", err)
		}
		if event == nil {
			return nil
		}
		if event.CreatedAt.IsZero() {
			event.CreatedAt = state.UpdatedAt
		}
		return insertEvent(ctx, tx, event)
	})
}

// Append records an event without touching the state.
func (s *PGStore) Append(ctx context.Context, event *Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return insertEvent(ctx, tx, event)
	})
}

func insertEvent(ctx context.Context, tx *sql.Tx, event *Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	var optionID sql.NullInt64
	if event.OptionID != nil {
		optionID = sql.NullInt64{Int64: int64(*event.OptionID), Valid: true}
	}
	const insert = `
INSERT INTO planner_history (session_id, user_id, event_type, planner_step, text, option_id, option_label, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	row := tx.QueryRowContext(ctx, insert,
		event.SessionID, event.UserID, string(event.Type), string(event.Step),
		event.Text, optionID, event.OptionLabel, payload, event.CreatedAt)
	if err := row.Scan(&event.ID); err != nil {
		return fmt.Errorf("insert planner event: %w", err)
	}
	return nil
}

func (s *PGStore) ListEvents(ctx context.Context, sessionID string) ([]Event, error) {
	const query = `
SELECT id, session_id, user_id, event_type, planner_step, text, option_id, option_label, payload, created_at
FROM planner_history
WHERE session_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev       Event
			typ      string
			step     string
			optionID sql.NullInt64
			payload  []byte
		)
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.UserID, &typ, &step, &ev.Text, &optionID, &ev.OptionLabel, &payload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Type = EventType(typ)
		ev.Step = Step(step)
		if optionID.Valid {
			id := int(optionID.Int64)
			ev.OptionID = &id
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &ev.Payload); err != nil {
				return nil, fmt.Errorf("decode event payload: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
