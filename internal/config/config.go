package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	AdminAPIKey string `yaml:"admin_api_key"`
	AdminSecret string `yaml:"admin_secret"` // HMAC secret for admin session tokens
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty disables Redis-backed rate limiting
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AIConfig struct {
	Provider        string `yaml:"provider"` // gemini | openai | noop
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIURL       string `yaml:"openai_url"`
	Model           string `yaml:"model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent completion calls
}

type ChatConfig struct {
	HistoryWindow      int           `yaml:"history_window"`  // messages in the prompt context
	MaxRetries         int           `yaml:"max_retries"`     // completion attempts per message
	RetryBase          time.Duration `yaml:"retry_base"`      // first backoff delay
	AttemptTimeout     time.Duration `yaml:"attempt_timeout"` // per-attempt completion bound
	IdleTTL            time.Duration `yaml:"idle_ttl"`        // idle sessions resolved after this
	EscalationKeywords []string      `yaml:"escalation_keywords"`
	SupportPhone       string        `yaml:"support_phone"`
	SupportEmail       string        `yaml:"support_email"`
	RateLimit          int           `yaml:"rate_limit"`        // messages per window per session, 0 = off
	RateLimitWindow    time.Duration `yaml:"rate_limit_window"` // fixed window for the limiter
}

type FeedbackConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Chat     ChatConfig     `yaml:"chat"`
	Feedback FeedbackConfig `yaml:"feedback"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.Chat.HistoryWindow <= 0 {
		cfg.Chat.HistoryWindow = 8
	}
	if cfg.Chat.MaxRetries <= 0 {
		cfg.Chat.MaxRetries = 3
	}
	if cfg.Chat.RetryBase <= 0 {
		cfg.Chat.RetryBase = time.Second
	}
	if cfg.Chat.AttemptTimeout <= 0 {
		cfg.Chat.AttemptTimeout = 12 * time.Second
	}
	if cfg.Chat.IdleTTL <= 0 {
		cfg.Chat.IdleTTL = 30 * time.Minute
	}
	if cfg.Chat.RateLimitWindow <= 0 {
		cfg.Chat.RateLimitWindow = time.Minute
	}
	if cfg.Feedback.Timeout <= 0 {
		cfg.Feedback.Timeout = 10 * time.Second
	}

	// Minimal validation
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.GeminiKey == "" && !dev {
			return nil, errors.New("ai.gemini_key is required for provider gemini")
		}
	case "openai":
		if cfg.AI.OpenAIKey == "" && !dev {
			return nil, errors.New("ai.openai_key is required for provider openai")
		}
	case "noop":
	default:
		return nil, fmt.Errorf("unknown ai.provider %q", cfg.AI.Provider)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
