package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
)

func newSession(id string) *model.ChatSession {
	return model.NewChatSession(id, "", model.UserTypeCustomer, "en")
}

func TestCreateAndGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	if err := st.Create(ctx, newSession("s1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := st.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// mutating the snapshot must not leak into the store
	a.Messages = append(a.Messages, model.ChatMessage{ID: "m-rogue", Role: model.RoleUser, Content: "rogue"})
	a.Status = model.ChatSessionEscalated

	b, _ := st.Get(ctx, "s1")
	if len(b.Messages) != 0 || b.Status != model.ChatSessionActive {
		t.Fatalf("snapshot mutation leaked into store: %+v", b)
	}
}

func TestGetUnknownSession(t *testing.T) {
	st := NewSessionStore()
	if _, err := st.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestCreateDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	_ = st.Create(ctx, newSession("s1"))
	if err := st.Create(ctx, newSession("s1")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("got %v", err)
	}
}

func TestAppendRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	s := newSession("s1")
	s.UpdatedAt = time.Now().Add(-time.Hour)
	s.CreatedAt = s.UpdatedAt
	_ = st.Create(ctx, s)

	if err := st.Append(ctx, "s1", model.ChatMessage{ID: "m1", Role: model.RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, _ := st.Get(ctx, "s1")
	if len(got.Messages) != 1 {
		t.Fatalf("messages = %d", len(got.Messages))
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Fatalf("UpdatedAt not refreshed on append")
	}
}

func TestAppendToResolvedSessionRejected(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	_ = st.Create(ctx, newSession("s1"))
	_ = st.Close(ctx, "s1")

	err := st.Append(ctx, "s1", model.ChatMessage{ID: "m1", Role: model.RoleAssistant, Content: "late"})
	if !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("got %v, want ErrSessionClosed", err)
	}
	got, _ := st.Get(ctx, "s1")
	if len(got.Messages) != 0 {
		t.Fatalf("resolved session accepted an append")
	}
}

func TestCloseIdempotentAndUnknownNoop(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	_ = st.Create(ctx, newSession("s1"))

	if err := st.Close(ctx, "s1"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := st.Close(ctx, "s1"); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := st.Close(ctx, "missing"); err != nil {
		t.Fatalf("close of unknown session must be a no-op, got %v", err)
	}
	got, _ := st.Get(ctx, "s1")
	if got.Status != model.ChatSessionResolved {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestSetStatusCannotReopenResolved(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	_ = st.Create(ctx, newSession("s1"))
	_ = st.Close(ctx, "s1")

	if err := st.SetStatus(ctx, "s1", model.ChatSessionActive); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("got %v", err)
	}
}

func TestCountByStatus(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()
	_ = st.Create(ctx, newSession("a"))
	_ = st.Create(ctx, newSession("b"))
	_ = st.Create(ctx, newSession("c"))
	_ = st.SetStatus(ctx, "b", model.ChatSessionEscalated)
	_ = st.Close(ctx, "c")

	counts, err := st.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[model.ChatSessionActive] != 1 || counts[model.ChatSessionEscalated] != 1 || counts[model.ChatSessionResolved] != 1 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()

	old := newSession("old")
	old.UpdatedAt = time.Now().Add(-time.Hour)
	_ = st.Create(ctx, old)
	_ = st.Create(ctx, newSession("recent"))

	got, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "recent" || got[1].ID != "old" {
		t.Fatalf("list order = %v", []string{got[0].ID, got[1].ID})
	}
}

func TestSweepIdleResolvesStaleSessions(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore()

	stale := newSession("stale")
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	_ = st.Create(ctx, stale)
	_ = st.Create(ctx, newSession("fresh"))

	swept, err := st.SweepIdle(ctx, time.Now().Add(-30*time.Minute))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(swept) != 1 || swept[0] != "stale" {
		t.Fatalf("swept = %v, want [stale]", swept)
	}
	s1, _ := st.Get(ctx, "stale")
	s2, _ := st.Get(ctx, "fresh")
	if s1.Status != model.ChatSessionResolved {
		t.Fatalf("stale session not resolved")
	}
	if s2.Status != model.ChatSessionActive {
		t.Fatalf("fresh session swept")
	}
}
