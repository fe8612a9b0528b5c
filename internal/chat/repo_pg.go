package chat

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, t Turn) error {
	const query = `
INSERT INTO chat_turns (id, session_id, user_id, question, answer, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.SessionID, t.UserID, t.Question, t.Answer, t.CreatedAt)
	return err
}

func (r *PGRepo) ListBySession(ctx context.Context, sessionID string) ([]Turn, error) {
	const query = `
SELECT id, session_id, user_id, question, answer, created_at
FROM chat_turns
WHERE session_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.UserID, &t.Question, &t.Answer, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
