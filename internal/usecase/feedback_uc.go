package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/repository"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/metrics"
)

var _ FeedbackUseCase = (*feedbackUC)(nil)

type FeedbackUseCase interface {
	Submit(ctx context.Context, fb model.Feedback) error
}

// feedbackUC validates a post-session rating and forwards it to the external
// feedback endpoint. Single attempt, no retry: losing a rating is acceptable,
// blocking the user on one is not.
type feedbackUC struct {
	store    repository.SessionStore
	endpoint string
	client   *http.Client
	log      *zerolog.Logger
}

func NewFeedbackUseCase(store repository.SessionStore, endpoint string, timeout time.Duration, logger *zerolog.Logger) *feedbackUC {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &feedbackUC{
		store:    store,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      logger,
	}
}

func (f *feedbackUC) Submit(ctx context.Context, fb model.Feedback) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("%w: rating must be 1..5", domain.ErrInvalidArgument)
	}
	if fb.WasHelpful == nil {
		return fmt.Errorf("%w: wasHelpful is required", domain.ErrInvalidArgument)
	}
	if _, err := f.store.Get(ctx, fb.SessionID); err != nil {
		return err
	}
	if f.endpoint == "" {
		// Forwarding not configured; accept and log so dev setups still work.
		f.log.Info().Str("session_id", fb.SessionID).Int("rating", fb.Rating).Msg("feedback accepted (no endpoint configured)")
		metrics.IncFeedback(true)
		return nil
	}

	body, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.IncFeedback(false)
		return fmt.Errorf("submit feedback: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		metrics.IncFeedback(false)
		return fmt.Errorf("submit feedback: http %d", resp.StatusCode)
	}
	metrics.IncFeedback(true)
	f.log.Info().Str("session_id", fb.SessionID).Int("rating", fb.Rating).Msg("feedback forwarded")
	return nil
}
