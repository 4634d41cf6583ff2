package usecase

import (
	"context"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

type ChatStats struct {
	TotalSessions int `json:"totalSessions"`
	Active        int `json:"active"`
	Escalated     int `json:"escalated"`
	Resolved      int `json:"resolved"`
}

type StatsUseCase interface {
	Summary(ctx context.Context) (*ChatStats, error)
	Sessions(ctx context.Context) ([]*model.ChatSession, error)
}

type statsUC struct {
	store repository.SessionStore
}

func NewStatsUseCase(store repository.SessionStore) *statsUC {
	return &statsUC{store: store}
}

func (s *statsUC) Summary(ctx context.Context) (*ChatStats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	st := &ChatStats{
		Active:    counts[model.ChatSessionActive],
		Escalated: counts[model.ChatSessionEscalated],
		Resolved:  counts[model.ChatSessionResolved],
	}
	st.TotalSessions = st.Active + st.Escalated + st.Resolved
	return st, nil
}

// Sessions lists every live session for the admin dashboard, newest first.
func (s *statsUC) Sessions(ctx context.Context) ([]*model.ChatSession, error) {
	return s.store.List(ctx)
}
