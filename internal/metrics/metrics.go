// Package metrics exposes the Prometheus collectors for discovery and matching.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Swipe and match metrics
	SwipesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muzz_swipes_recorded_total",
			Help: "Total number of swipes recorded",
		},
		[]string{"action"}, // "like", "pass"
	)

	SwipeRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muzz_swipe_rejections_total",
			Help: "Total number of swipes rejected before being stored",
		},
		[]string{"reason"}, // "duplicate", "validation", "not_found", "error"
	)

	MatchesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muzz_matches_created_total",
			Help: "Total number of matches created",
		},
	)

	MatchConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muzz_match_conflicts_total",
			Help: "Total number of match inserts that lost a race on the pair index",
		},
	)

	Unmatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muzz_unmatches_total",
			Help: "Total number of matches removed",
		},
	)

	// Feed metrics
	FeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "muzz_feed_duration_seconds",
			Help:    "Time to build a discovery feed",
			Buckets: prometheus.DefBuckets,
		},
	)

	FeedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "muzz_feed_candidates",
			Help:    "Eligible candidates considered per feed request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Event metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muzz_events_published_total",
			Help: "Total number of match events delivered to a transport",
		},
		[]string{"transport"},
	)

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muzz_event_publish_failures_total",
			Help: "Total number of match events a transport failed to deliver",
		},
		[]string{"transport"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "muzz_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muzz_like_count_cache_hits_total",
			Help: "Total number of like-count cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "muzz_like_count_cache_misses_total",
			Help: "Total number of like-count cache misses",
		},
	)

	// RPC metrics
	RPCRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muzz_rpc_requests_total",
			Help: "Total number of unary RPCs handled",
		},
		[]string{"method", "code"},
	)

	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "muzz_rpc_duration_seconds",
			Help:    "Duration of unary RPCs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// RecordFeed observes one feed build.
func RecordFeed(candidates int, duration time.Duration) {
	FeedCandidates.Observe(float64(candidates))
	FeedDuration.Observe(duration.Seconds())
}

// RecordRPC observes one unary call.
func RecordRPC(method, code string, duration time.Duration) {
	RPCRequests.WithLabelValues(method, code).Inc()
	RPCDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordPublish counts a delivery attempt on a transport.
func RecordPublish(transport string, err error) {
	if err != nil {
		EventPublishFailures.WithLabelValues(transport).Inc()
		return
	}
	EventsPublished.WithLabelValues(transport).Inc()
}
