package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/config"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
)

// New selects and builds the completion adapter for the configured provider,
// wrapped with the concurrency cap. In dev mode a missing provider key falls
// back to the noop adapter instead of failing startup.
func New(ctx context.Context, cfg *config.AIConfig, dev bool, logger *zerolog.Logger) (adapter.CompletionAdapter, error) {
	var (
		inner adapter.CompletionAdapter
		err   error
	)
	switch {
	case cfg.Provider == "noop":
		inner = NewNoopAdapter()
	case cfg.Provider == "gemini" && cfg.GeminiKey != "":
		inner, err = NewGeminiAdapter(ctx, cfg.GeminiKey, cfg.GeminiURL, cfg.Model, cfg.MaxOutputTokens)
	case cfg.Provider == "openai" && cfg.OpenAIKey != "":
		inner, err = NewOpenAIAdapter(cfg.OpenAIKey, cfg.OpenAIURL, cfg.Model)
	case dev:
		logger.Warn().Str("provider", cfg.Provider).Msg("no provider key configured, using noop adapter")
		inner = NewNoopAdapter()
	default:
		return nil, fmt.Errorf("provider %s requires an api key", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewLimitedCompletion(inner, cfg.ConcurrentLimit), nil
}
