package repository

import (
	"context"
	"time"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
)

// SessionStore is the registry of live chat sessions. Implementations own all
// mutation of session state so invariants (append-only messages, no appends to
// resolved sessions) hold in one place.
type SessionStore interface {
	// Create inserts a new session. Fails only on duplicate id.
	Create(ctx context.Context, s *model.ChatSession) error

	// Get returns a deep copy of the session, or domain.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*model.ChatSession, error)

	// Append adds a message to the session and refreshes UpdatedAt.
	// Returns domain.ErrSessionClosed if the session was resolved meanwhile,
	// so in-flight completions cannot silently reopen a closed session.
	Append(ctx context.Context, sessionID string, msg model.ChatMessage) error

	// SetStatus transitions a session. Resolved is terminal.
	SetStatus(ctx context.Context, sessionID string, status model.ChatSessionStatus) error

	// Close marks the session resolved. Idempotent; no-op when absent.
	Close(ctx context.Context, id string) error

	// List returns copies of all sessions, most recent activity first.
	List(ctx context.Context) ([]*model.ChatSession, error)

	// CountByStatus reports how many sessions are in each status.
	CountByStatus(ctx context.Context) (map[model.ChatSessionStatus]int, error)

	// SweepIdle resolves active/escalated sessions not updated since the cutoff
	// and returns their ids, so callers can release per-session state.
	SweepIdle(ctx context.Context, cutoff time.Time) ([]string, error)
}
