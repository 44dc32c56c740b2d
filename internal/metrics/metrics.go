// Package metrics provides Prometheus metrics for the skill.
// Labels stay low-cardinality: no user, session or show ids.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts dispatched requests by dialogue state and routing key.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_requests_total",
		Help: "Total number of skill requests, by dialogue state and request key.",
	}, []string{"state", "key"})

	// UnhandledTotal counts requests that fell through to a state's fallback.
	UnhandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_unhandled_total",
		Help: "Total number of requests routed to the unhandled fallback, by dialogue state.",
	}, []string{"state"})

	// HandlerErrorsTotal counts handler errors converted to spoken apologies.
	HandlerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_handler_errors_total",
		Help: "Total number of handler errors, by request key.",
	}, []string{"key"})

	// PlaybackEventsTotal counts audio player lifecycle events by type.
	PlaybackEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_playback_events_total",
		Help: "Total number of audio player lifecycle events, by event.",
	}, []string{"event"})

	// HandlerDuration observes time spent inside the middleware chain.
	HandlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skill_handler_duration_seconds",
		Help:    "Time spent handling a skill request, by request key.",
		Buckets: prometheus.DefBuckets,
	}, []string{"key"})

	// StoreErrorsTotal counts attribute store failures by operation.
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_store_errors_total",
		Help: "Total number of attribute store failures, by operation.",
	}, []string{"op"})

	// FeedRefreshFailuresTotal counts feeds the refresh worker failed to download.
	FeedRefreshFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skill_feed_refresh_failures_total",
		Help: "Total number of failed background feed refreshes.",
	})
)
