package ai

import (
	"context"
	"time"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter implements the completion port for local/dev runs.
// It echoes a canned reply instead of calling a real provider.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (a *NoopAdapter) Name() string { return "noop" }

func (a *NoopAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.NewError(adapter.ErrKindNetwork, "noop cancelled", ctx.Err())
	}
	return "This is a development reply from the Nagrik Sewa assistant.", nil
}
