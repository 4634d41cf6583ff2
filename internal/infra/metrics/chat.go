package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		completionCalls,
		completionLatencyMs,
		completionRetries,
		chatFallbacks,
		sessionEvents,
		feedbackSubmissions,
	)
}

var (
	completionCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_completion_calls_total",
			Help: "Completion attempts per provider and outcome.",
		},
		[]string{"provider", "success"},
	)

	completionLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_completion_latency_ms",
			Help:    "Completion call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "success"},
	)

	completionRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_completion_retries_total",
			Help: "Backoff retries scheduled after failed completion attempts.",
		},
	)

	chatFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_fallbacks_total",
			Help: "Canned fallback messages served, by failure classification.",
		},
		[]string{"kind"},
	)

	sessionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_session_events_total",
			Help: "Session lifecycle events (created/resolved/escalated/swept).",
		},
		[]string{"event"},
	)

	feedbackSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_feedback_submissions_total",
			Help: "Feedback submissions by forwarding outcome.",
		},
		[]string{"success"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Chat helpers --------

func ObserveCompletion(provider string, elapsed time.Duration, success bool) {
	ok := strconv.FormatBool(success)
	completionCalls.WithLabelValues(norm(provider), ok).Inc()
	completionLatencyMs.WithLabelValues(norm(provider), ok).Observe(float64(elapsed.Milliseconds()))
}

func IncRetry() { completionRetries.Inc() }

func IncFallback(kind string) { chatFallbacks.WithLabelValues(norm(kind)).Inc() }

func IncSessionEvent(event string) { sessionEvents.WithLabelValues(norm(event)).Inc() }

func AddSessionEvents(event string, n int) {
	if n > 0 {
		sessionEvents.WithLabelValues(norm(event)).Add(float64(n))
	}
}

func IncFeedback(success bool) {
	feedbackSubmissions.WithLabelValues(strconv.FormatBool(success)).Inc()
}
