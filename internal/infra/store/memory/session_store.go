package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore keeps all sessions in process memory. Nothing is persisted:
// a restart drops every conversation, mirroring the page-lifetime scope of
// the web client. Construct one per composition root; tests get isolated
// stores instead of shared package state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.ChatSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*model.ChatSession)}
}

func (st *SessionStore) Create(_ context.Context, s *model.ChatSession) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ID]; ok {
		return domain.ErrInvalidArgument
	}
	st.sessions[s.ID] = s.Clone()
	return nil
}

func (st *SessionStore) Get(_ context.Context, id string) (*model.ChatSession, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (st *SessionStore) Append(_ context.Context, sessionID string, msg model.ChatMessage) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.Status == model.ChatSessionResolved {
		return domain.ErrSessionClosed
	}
	s.AddMessage(msg)
	return nil
}

func (st *SessionStore) SetStatus(_ context.Context, sessionID string, status model.ChatSessionStatus) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.Status == model.ChatSessionResolved && status != model.ChatSessionResolved {
		return domain.ErrSessionClosed
	}
	s.Status = status
	s.UpdatedAt = time.Now()
	return nil
}

func (st *SessionStore) Close(_ context.Context, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil
	}
	if s.Status != model.ChatSessionResolved {
		s.Status = model.ChatSessionResolved
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (st *SessionStore) List(_ context.Context) ([]*model.ChatSession, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*model.ChatSession, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (st *SessionStore) CountByStatus(_ context.Context) (map[model.ChatSessionStatus]int, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make(map[model.ChatSessionStatus]int, 3)
	for _, s := range st.sessions {
		out[s.Status]++
	}
	return out, nil
}

func (st *SessionStore) SweepIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	var swept []string
	for id, s := range st.sessions {
		if s.Status == model.ChatSessionResolved {
			continue
		}
		if s.UpdatedAt.Before(cutoff) {
			s.Status = model.ChatSessionResolved
			s.UpdatedAt = time.Now()
			swept = append(swept, id)
		}
	}
	return swept, nil
}

// MessageCount reports the total number of stored messages across sessions.
func (st *SessionStore) MessageCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	n := 0
	for _, s := range st.sessions {
		n += len(s.Messages)
	}
	return n
}
