package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/model"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/repository"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/i18n"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/logging"
	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	StartChat(ctx context.Context, userType model.UserType, language, userID string) (*model.ChatSession, error)
	SendMessage(ctx context.Context, sessionID, text string) (*model.ChatMessage, error)
	History(ctx context.Context, sessionID string) (*model.ChatSession, error)
	EndChat(ctx context.Context, sessionID string) error
}

// ChatOptions tunes the retry/escalation behaviour.
type ChatOptions struct {
	HistoryWindow  int           // messages included in the prompt context
	MaxAttempts    int           // completion attempts per SendMessage
	RetryBase      time.Duration // first backoff delay; doubles per failure
	AttemptTimeout time.Duration // per-attempt bound on the completion call
	Keywords       []string      // user phrases that bypass the model and escalate
	SupportPhone   string
	SupportEmail   string
}

func (o *ChatOptions) normalize() {
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = 8
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryBase <= 0 {
		o.RetryBase = time.Second
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = 12 * time.Second
	}
}

type chatUC struct {
	store  repository.SessionStore
	ai     adapter.CompletionAdapter
	bundle *i18n.Bundle
	opts   ChatOptions
	log    *zerolog.Logger

	// sleep is swapped for a fake in tests so backoff timing is assertable.
	sleep func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	gates map[string]*sync.Mutex
}

func NewChatUseCase(store repository.SessionStore, ai adapter.CompletionAdapter, bundle *i18n.Bundle, opts ChatOptions, logger *zerolog.Logger) *chatUC {
	opts.normalize()
	return &chatUC{
		store:  store,
		ai:     ai,
		bundle: bundle,
		opts:   opts,
		log:    logger,
		sleep:  sleepCtx,
		gates:  make(map[string]*sync.Mutex),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartChat creates a session and seeds it with a localized welcome message.
func (c *chatUC) StartChat(ctx context.Context, userType model.UserType, language, userID string) (*model.ChatSession, error) {
	if userType != model.UserTypeCustomer && userType != model.UserTypeWorker {
		return nil, fmt.Errorf("%w: user type %q", domain.ErrInvalidArgument, userType)
	}
	if !c.bundle.Has(language) {
		return nil, fmt.Errorf("%w: language %q", domain.ErrInvalidArgument, language)
	}

	s := model.NewChatSession(uuid.NewString(), userID, userType, language)
	if err := c.store.Create(ctx, s); err != nil {
		return nil, err
	}
	welcome := c.newMessage(s, model.RoleAssistant, c.bundle.T(language, "welcome."+string(userType)))
	if err := c.store.Append(ctx, s.ID, welcome); err != nil {
		return nil, err
	}
	metrics.IncSessionEvent("created")
	c.log.Info().Str("session_id", s.ID).Str("user_type", string(userType)).Str("language", language).Msg("chat session started")
	return c.store.Get(ctx, s.ID)
}

// SendMessage appends the user message, obtains exactly one terminal assistant
// message (completion or localized fallback) and returns it. Calls on the same
// session are serialized so replies land in request order.
func (c *chatUC) SendMessage(ctx context.Context, sessionID, text string) (*model.ChatMessage, error) {
	defer logging.TraceDuration(c.log, "ChatUC.SendMessage")()
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	gate := c.gate(sessionID)
	gate.Lock()
	defer gate.Unlock()

	s, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status == model.ChatSessionResolved {
		return nil, domain.ErrSessionClosed
	}

	userMsg := c.newMessage(s, model.RoleUser, text)
	if err := c.store.Append(ctx, sessionID, userMsg); err != nil {
		return nil, err
	}
	s.AddMessage(userMsg)

	if c.matchesKeyword(text) {
		return c.escalate(ctx, s, c.handoffText(s))
	}

	reply, genErr := c.generateWithRetry(ctx, s)
	if genErr == nil {
		assistant := c.newMessage(s, model.RoleAssistant, strings.TrimSpace(reply))
		if err := c.store.Append(ctx, sessionID, assistant); err != nil {
			// Session was closed while the completion was in flight; the
			// result must not reopen it. Discard and report.
			c.log.Warn().Str("session_id", sessionID).Msg("discarding completion for closed session")
			return nil, err
		}
		return &assistant, nil
	}

	kind := adapter.KindOf(genErr)
	metrics.IncFallback(string(kind))
	c.log.Error().Err(genErr).Str("session_id", sessionID).Str("kind", string(kind)).Msg("completion retries exhausted")
	return c.escalate(ctx, s, c.fallbackText(s, kind))
}

// generateWithRetry runs the bounded attempt loop: each failed attempt is
// followed by an exponential backoff delay (base, 2x, 4x, ...) before the
// next one, and the loop gives up after MaxAttempts failures.
func (c *chatUC) generateWithRetry(ctx context.Context, s *model.ChatSession) (string, error) {
	prompt := c.buildPrompt(s)
	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.opts.AttemptTimeout)
		start := time.Now()
		reply, err := c.ai.Generate(attemptCtx, prompt)
		cancel()
		metrics.ObserveCompletion(c.ai.Name(), time.Since(start), err == nil)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		c.log.Warn().Err(err).Str("session_id", s.ID).Int("attempt", attempt).Msg("completion attempt failed")
		if attempt < c.opts.MaxAttempts {
			metrics.IncRetry()
		}
		delay := c.opts.RetryBase << (attempt - 1)
		if serr := c.sleep(ctx, delay); serr != nil {
			return "", lastErr
		}
	}
	return "", lastErr
}

// escalate appends the terminal message and marks the session escalated.
// It never returns a completion error; the caller always gets a message
// to render unless the session vanished or was resolved mid-flight.
func (c *chatUC) escalate(ctx context.Context, s *model.ChatSession, text string) (*model.ChatMessage, error) {
	msg := c.newMessage(s, model.RoleAssistant, text)
	if err := c.store.Append(ctx, s.ID, msg); err != nil {
		return nil, err
	}
	if err := c.store.SetStatus(ctx, s.ID, model.ChatSessionEscalated); err != nil {
		return nil, err
	}
	metrics.IncSessionEvent("escalated")
	return &msg, nil
}

func (c *chatUC) History(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	return c.store.Get(ctx, sessionID)
}

func (c *chatUC) EndChat(ctx context.Context, sessionID string) error {
	if err := c.store.Close(ctx, sessionID); err != nil {
		return err
	}
	metrics.IncSessionEvent("resolved")
	c.mu.Lock()
	delete(c.gates, sessionID)
	c.mu.Unlock()
	return nil
}

// SweepIdle resolves sessions idle since before the cutoff and releases their
// send gates, so abandoned sessions leave nothing behind in this process.
func (c *chatUC) SweepIdle(ctx context.Context, cutoff time.Time) (int, error) {
	swept, err := c.store.SweepIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(swept) > 0 {
		c.mu.Lock()
		for _, id := range swept {
			delete(c.gates, id)
		}
		c.mu.Unlock()
	}
	return len(swept), nil
}

// gate returns the per-session send lock, creating it on first use.
func (c *chatUC) gate(sessionID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gates[sessionID]
	if !ok {
		g = &sync.Mutex{}
		c.gates[sessionID] = g
	}
	return g
}

func (c *chatUC) newMessage(s *model.ChatSession, role model.MessageRole, content string) model.ChatMessage {
	return model.ChatMessage{
		ID:        ulid.Make().String(),
		SessionID: s.ID,
		Role:      role,
		Content:   content,
		Language:  s.Language,
		UserType:  s.UserType,
		Timestamp: time.Now(),
	}
}

// buildPrompt serializes the system preamble and the recent conversation
// window as "role: content" lines. The newest user message is already in
// the session snapshot.
func (c *chatUC) buildPrompt(s *model.ChatSession) string {
	var b strings.Builder
	b.WriteString(c.bundle.T("en", "preamble."+string(s.UserType), s.Language))
	b.WriteString("\n\n")
	for _, m := range s.RecentMessages(c.opts.HistoryWindow) {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func (c *chatUC) matchesKeyword(text string) bool {
	if len(c.opts.Keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range c.opts.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (c *chatUC) fallbackText(s *model.ChatSession, kind adapter.ErrorKind) string {
	key := "fallback." + string(kind)
	switch kind {
	case adapter.ErrKindNetwork, adapter.ErrKindQuota, adapter.ErrKindAPI:
	default:
		key = "fallback.unknown"
	}
	return c.bundle.T(s.Language, key, c.opts.SupportPhone, c.opts.SupportEmail)
}

func (c *chatUC) handoffText(s *model.ChatSession) string {
	return c.bundle.T(s.Language, "escalation.handoff", c.opts.SupportPhone, c.opts.SupportEmail)
}
