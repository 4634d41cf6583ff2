package ai

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/Nagrik-Sewa/Nagrik-Sewa-sub001/internal/domain/ports/adapter"
)

// classifyErr assigns an adapter.ErrorKind to a transport-level error.
// Structured classification (HTTP status, API error codes) happens in each
// adapter; this substring matching is only the last resort for opaque errors.
func classifyErr(err error) adapter.ErrorKind {
	if err == nil {
		return adapter.ErrKindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return adapter.ErrKindNetwork
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return adapter.ErrKindNetwork
	}
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "network", "connection", "timeout", "fetch", "dial", "no such host", "unreachable"):
		return adapter.ErrKindNetwork
	case containsAny(msg, "quota", "rate limit", "resource exhausted", "429", "too many requests"):
		return adapter.ErrKindQuota
	case containsAny(msg, "api key", "unauthorized", "unauthenticated", "permission", "forbidden", "invalid key"):
		return adapter.ErrKindAPI
	default:
		return adapter.ErrKindUnknown
	}
}

// classifyStatus maps an HTTP status code from a completion backend.
func classifyStatus(code int) adapter.ErrorKind {
	switch {
	case code == 429:
		return adapter.ErrKindQuota
	case code == 401 || code == 403:
		return adapter.ErrKindAPI
	case code >= 500:
		return adapter.ErrKindNetwork
	default:
		return adapter.ErrKindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
