package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client *genai.Client
	model  string
	maxOut int
}

// NewGeminiAdapter creates a Gemini-backed completion adapter using the
// official SDK. baseURL may be empty for the public endpoint.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", adapter.NewError(adapter.ErrKindUnknown, "empty prompt", nil)
	}
	cfg := &genai.GenerateContentConfig{}
	if g.maxOut > 0 {
		cfg.MaxOutputTokens = int32(g.maxOut)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classifyGenAI(err)
	}
	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", adapter.NewError(adapter.ErrKindUnknown, "gemini: no candidate text", nil)
	}
	return text, nil
}

// classifyGenAI prefers the SDK's structured APIError code over text matching.
func classifyGenAI(err error) *adapter.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return adapter.NewError(classifyStatus(apiErr.Code), "gemini api error", err)
	}
	return adapter.NewError(classifyErr(err), "gemini call failed", err)
}
