package adapter

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a completion failure for fallback selection.
type ErrorKind string

const (
	ErrKindNetwork ErrorKind = "network"
	ErrKindQuota   ErrorKind = "quota"
	ErrKindAPI     ErrorKind = "api"
	ErrKindUnknown ErrorKind = "unknown"
)

// Error is the structured failure returned by completion adapters.
// Retry policy lives entirely in the caller; adapters only classify.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind. Message may be empty.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification from an adapter error,
// ErrKindUnknown for anything else.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ErrKindUnknown
}

// CompletionAdapter is the port for the external generative-text service.
// Generate is atomic: no streaming, no internal retries.
type CompletionAdapter interface {
	// Name identifies the provider for logs and metrics.
	Name() string

	// Generate produces a completion for the prompt, or a *Error on failure.
	Generate(ctx context.Context, prompt string) (string, error)
}
