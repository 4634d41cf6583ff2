package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/config"
	aiAdapters "github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/adapters/ai"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/api"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/i18n"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/logging"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/metrics"
	red "github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/redis"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/sched"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/store/memory"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop provider allowed without keys)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Locales ----
	bundle, err := i18n.NewBundle(i18n.LocalesFS)
	if err != nil {
		logger.Fatal().Err(err).Msg("locales")
	}

	// ---- Redis (optional; backs the message rate limiter) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	}

	// ---- Completion adapter ----
	ai, err := aiAdapters.New(ctx, &cfg.AI, cfg.Runtime.Dev, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.AI.Provider).Msg("completion adapter")
	}
	logger.Info().Str("provider", ai.Name()).Str("model", cfg.AI.Model).Msg("completion adapter ready")

	// ---- Store and use cases ----
	store := memory.NewSessionStore()
	chatUC := usecase.NewChatUseCase(store, ai, bundle, usecase.ChatOptions{
		HistoryWindow:  cfg.Chat.HistoryWindow,
		MaxAttempts:    cfg.Chat.MaxRetries,
		RetryBase:      cfg.Chat.RetryBase,
		AttemptTimeout: cfg.Chat.AttemptTimeout,
		Keywords:       cfg.Chat.EscalationKeywords,
		SupportPhone:   cfg.Chat.SupportPhone,
		SupportEmail:   cfg.Chat.SupportEmail,
	}, logger)
	feedbackUC := usecase.NewFeedbackUseCase(store, cfg.Feedback.Endpoint, cfg.Feedback.Timeout, logger)
	statsUC := usecase.NewStatsUseCase(store)

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Server.AdminSecret, cfg.Server.AdminAPIKey, !cfg.Runtime.Dev, 30*time.Minute)
	srv := api.NewServer(chatUC, feedbackUC, statsUC, auth, limiter, cfg.Chat.RateLimit, cfg.Chat.RateLimitWindow, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Idle session sweeper ----
	worker := sched.NewIdleWorker(time.Minute, cfg.Chat.IdleTTL, chatUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
