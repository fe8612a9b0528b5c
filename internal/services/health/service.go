package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. A nil db means in-memory storage.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports liveness and the storage backend state.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	if s.DB == nil {
		return map[string]any{"ok": true, "storage": "memory"}, true
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return map[string]any{"ok": false, "storage": "postgres", "database": "unreachable"}, false
	}
	return map[string]any{"ok": true, "storage": "postgres", "database": "ok"}, true
}
