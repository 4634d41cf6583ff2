package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/store/memory"
)

func boolPtr(b bool) *bool { return &b }

func newFeedbackFixture(t *testing.T, endpoint string) (*feedbackUC, string) {
	t.Helper()
	logger := zerolog.Nop()
	st := memory.NewSessionStore()
	s := model.NewChatSession("fb-session", "u1", model.UserTypeCustomer, "en")
	if err := st.Create(context.Background(), s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return NewFeedbackUseCase(st, endpoint, 5*time.Second, &logger), s.ID
}

func TestSubmit_ForwardsToEndpoint(t *testing.T) {
	var got model.Feedback
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	uc, sid := newFeedbackFixture(t, srv.URL)
	fb := model.Feedback{SessionID: sid, Rating: 4, Comment: "quick and clear", WasHelpful: boolPtr(true)}
	if err := uc.Submit(context.Background(), fb); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if contentType != "application/json" {
		t.Fatalf("content type = %q", contentType)
	}
	if got.SessionID != sid || got.Rating != 4 || got.Comment != "quick and clear" {
		t.Fatalf("forwarded payload = %+v", got)
	}
	if got.WasHelpful == nil || !*got.WasHelpful {
		t.Fatalf("wasHelpful not forwarded")
	}
}

func TestSubmit_EndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	uc, sid := newFeedbackFixture(t, srv.URL)
	err := uc.Submit(context.Background(), model.Feedback{SessionID: sid, Rating: 3, WasHelpful: boolPtr(false)})
	if err == nil {
		t.Fatal("expected error on 500 from endpoint")
	}
}

func TestSubmit_NoEndpointConfigured(t *testing.T) {
	uc, sid := newFeedbackFixture(t, "")
	if err := uc.Submit(context.Background(), model.Feedback{SessionID: sid, Rating: 5, WasHelpful: boolPtr(true)}); err != nil {
		t.Fatalf("submit without endpoint should accept locally: %v", err)
	}
}

func TestSubmit_Validation(t *testing.T) {
	uc, sid := newFeedbackFixture(t, "")

	cases := []struct {
		name string
		fb   model.Feedback
		want error
	}{
		{"rating too low", model.Feedback{SessionID: sid, Rating: 0, WasHelpful: boolPtr(true)}, domain.ErrInvalidArgument},
		{"rating too high", model.Feedback{SessionID: sid, Rating: 6, WasHelpful: boolPtr(true)}, domain.ErrInvalidArgument},
		{"missing wasHelpful", model.Feedback{SessionID: sid, Rating: 3}, domain.ErrInvalidArgument},
		{"unknown session", model.Feedback{SessionID: "nope", Rating: 3, WasHelpful: boolPtr(true)}, domain.ErrSessionNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := uc.Submit(context.Background(), tc.fb); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
