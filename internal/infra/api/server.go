package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/logging"
	red "github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/redis"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/usecase"
)

// Server wires the chat, feedback and admin surfaces onto a chi router.
type Server struct {
	chatUC     usecase.ChatUseCase
	feedbackUC usecase.FeedbackUseCase
	statsUC    usecase.StatsUseCase
	auth       *AuthManager
	limiter    *red.RateLimiter
	rateLimit  int
	rateWindow time.Duration
	log        *zerolog.Logger
}

func NewServer(
	chatUC usecase.ChatUseCase,
	feedbackUC usecase.FeedbackUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	limiter *red.RateLimiter,
	rateLimit int,
	rateWindow time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		chatUC:     chatUC,
		feedbackUC: feedbackUC,
		statsUC:    statsUC,
		auth:       auth,
		limiter:    limiter,
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
		log:        logger,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))
	// Worst case send: 3 attempts at 12s plus 7s of backoff.
	r.Use(Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleCloseSession)
				r.With(MessageRateLimit(s.limiter, s.rateLimit, s.rateWindow, s.log)).
					Post("/messages", s.handleSendMessage)
			})
		})
		r.Post("/chatbot/feedback", s.handleFeedback)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleAdminLogin)
			r.With(s.adminOnly).Get("/stats", s.handleStats)
			r.With(s.adminOnly).Get("/sessions", s.handleSessions)
		})
	})
	return r
}

// ---- chat handlers ----

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserType string `json:"userType"`
		Language string `json:"language"`
		UserID   string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()
	if payload.UserID != "" {
		ctx = logging.WithUserID(ctx, payload.UserID)
	}
	session, err := s.chatUC.StartChat(ctx, model.UserType(payload.UserType), payload.Language, payload.UserID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.chatUC.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := logging.WithSessID(r.Context(), sessionID)
	reply, err := s.chatUC.SendMessage(ctx, sessionID, payload.Content)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	session, err := s.chatUC.History(ctx, sessionID)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Reply  *model.ChatMessage      `json:"reply"`
		Status model.ChatSessionStatus `json:"status"`
	}{Reply: reply, Status: session.Status})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.chatUC.EndChat(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.feedbackUC.Submit(r.Context(), fb); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// ---- admin handlers ----

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.auth.CheckAPIKey(payload.APIKey) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Authorize(r); err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Summary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.statsUC.Sessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

// ---- helpers ----

func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrSessionClosed):
		respondError(w, http.StatusConflict, "session is closed")
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "too many messages")
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("unhandled error")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
