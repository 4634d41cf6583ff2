package ai

import (
	"context"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionAdapter = (*limitedCompletion)(nil)

type limitedCompletion struct {
	inner adapter.CompletionAdapter
	sem   chan struct{}
}

// NewLimitedCompletion caps concurrent Generate calls against the provider.
func NewLimitedCompletion(inner adapter.CompletionAdapter, maxConcurrent int) adapter.CompletionAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedCompletion{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedCompletion) Name() string { return l.inner.Name() }

func (l *limitedCompletion) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", adapter.NewError(adapter.ErrKindNetwork, "waiting for completion slot", ctx.Err())
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, prompt)
}
