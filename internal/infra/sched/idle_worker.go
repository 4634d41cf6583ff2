package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/metrics"
)

// SessionSweeper resolves idle sessions and releases any per-session state
// held alongside them. The chat use case implements it.
type SessionSweeper interface {
	SweepIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// IdleWorker periodically resolves sessions that have seen no activity for
// longer than ttl, reclaiming registry entries for abandoned tabs.
type IdleWorker struct {
	interval time.Duration
	ttl      time.Duration
	sweeper  SessionSweeper
	log      *zerolog.Logger
}

func NewIdleWorker(interval, ttl time.Duration, sweeper SessionSweeper, logger *zerolog.Logger) *IdleWorker {
	wl := logger.With().Str("component", "IdleWorker").Logger()
	return &IdleWorker{
		interval: interval,
		ttl:      ttl,
		sweeper:  sweeper,
		log:      &wl,
	}
}

func (w *IdleWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("ttl", w.ttl).Msg("starting idle worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping idle worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.sweeper.SweepIdle(ctx, time.Now().Add(-w.ttl))
			if err != nil {
				w.log.Error().Err(err).Msg("idle sweep error")
				continue
			}
			if n > 0 {
				metrics.AddSessionEvents("swept", n)
				w.log.Info().Int("count", n).Msg("idle sessions resolved")
			}
		}
	}
}
