package domain

import "errors"

var (
	// Common domain errors
	ErrSessionNotFound = errors.New("chat session not found")
	ErrSessionClosed   = errors.New("chat session is closed")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("too many messages")
)
