package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, s Session) (Session, error) {
	const query = `
INSERT INTO chat_sessions (id, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.CreatedAt, s.UpdatedAt); err != nil {
		return Session{}, err
	}
	return r.Get(ctx, s.ID)
}

func (r *PGRepo) Get(ctx context.Context, id string) (Session, error) {
	const query = `
SELECT id, user_id, created_at, updated_at
FROM chat_sessions
WHERE id = $1`
	var s Session
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PGRepo) Touch(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE chat_sessions SET updated_at = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
