package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle state of an upload session.
type SessionState string

const (
	SessionRunning   SessionState = "running"
	SessionCompleted SessionState = "completed"
	SessionFailed    SessionState = "failed"
)

// Session is one dataset load attempt against an org.
type Session struct {
	ID        string       `json:"id"`
	OrgID     string       `json:"org_id"`
	Dataset   string       `json:"dataset"`
	State     SessionState `json:"state"`
	Message   string       `json:"message,omitempty"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
}

// SessionLog records upload sessions in the local database.
type SessionLog struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSessionLog creates a session log over db.
func NewSessionLog(db *sql.DB) *SessionLog {
	return &SessionLog{db: db}
}

// EnsureSchema creates the sessions table if needed.
func (sl *SessionLog) EnsureSchema(ctx context.Context) error {
	_, err := sl.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id          TEXT PRIMARY KEY,
			org_id      TEXT NOT NULL,
			dataset     TEXT NOT NULL,
			state       TEXT NOT NULL DEFAULT 'running'
			            CHECK(state IN ('running', 'completed', 'failed')),
			message     TEXT,
			started_at  TEXT NOT NULL,
			ended_at    TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_dataset ON sessions(org_id, dataset);
	`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Start records a new running session.
func (sl *SessionLog) Start(ctx context.Context, orgID, dataset string) (*Session, error) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	s := &Session{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Dataset:   dataset,
		State:     SessionRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := sl.db.ExecContext(ctx, `
		INSERT INTO sessions (id, org_id, dataset, state, started_at)
		VALUES (?, ?, ?, 'running', ?)
	`, s.ID, s.OrgID, s.Dataset, s.StartedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	slog.Info("session started", "session_id", s.ID, "org_id", orgID, "dataset", dataset)
	return s, nil
}

// End marks a session completed.
func (sl *SessionLog) End(ctx context.Context, id string) error {
	return sl.finish(ctx, id, SessionCompleted, "")
}

// Fail marks a session failed with message.
func (sl *SessionLog) Fail(ctx context.Context, id, message string) error {
	return sl.finish(ctx, id, SessionFailed, message)
}

func (sl *SessionLog) finish(ctx context.Context, id string, state SessionState, message string) error {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	res, err := sl.db.ExecContext(ctx, `
		UPDATE sessions SET state = ?, message = ?, ended_at = ?
		WHERE id = ? AND state = 'running'
	`, string(state), message, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s is not running", id)
	}

	slog.Info("session finished", "session_id", id, "state", state, "message", message)
	return nil
}
