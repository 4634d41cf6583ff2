package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter talks to any Chat-Completions-compatible endpoint over raw
// HTTP, so deployments can point at OpenAI or a compatible proxy. The HTTP
// client carries no timeout of its own; callers bound each attempt via ctx.
type OpenAIAdapter struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewOpenAIAdapter(apiKey, baseURL, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIAdapter{
		apiKey: apiKey,
		base:   strings.TrimSuffix(baseURL, "/"),
		model:  model,
		client: &http.Client{},
	}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	type wireMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	reqBody := struct {
		Model    string        `json:"model"`
		Messages []wireMessage `json:"messages"`
	}{Model: o.model, Messages: []wireMessage{{Role: "user", Content: prompt}}}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", adapter.NewError(adapter.ErrKindUnknown, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", adapter.NewError(classifyErr(err), "openai call failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		err := fmt.Errorf("openai http %d", resp.StatusCode)
		return "", adapter.NewError(classifyStatus(resp.StatusCode), "openai api error", err)
	}

	var payload struct {
		Choices []struct {
			Message wireMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", adapter.NewError(adapter.ErrKindUnknown, "decode response", err)
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", adapter.NewError(adapter.ErrKindUnknown, "no choice content", nil)
}
