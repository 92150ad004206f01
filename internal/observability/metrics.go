package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesCast counts accepted votes by the state change they caused.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotusnews_votes_cast_total",
		Help: "Total number of votes applied, by transition",
	}, []string{"transition"})

	// FeedSubscribers is the number of live feed subscriptions.
	FeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lotusnews_feed_subscribers",
		Help: "Number of active live feed subscriptions",
	})

	// FeedPublished counts posts handed to the feed broadcaster by source.
	FeedPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotusnews_feed_published_total",
		Help: "Total number of posts published to the live feed",
	}, []string{"source"})

	// FeedDrops counts feed messages that were not delivered, by reason.
	FeedDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lotusnews_feed_drops_total",
		Help: "Total number of live feed messages dropped",
	}, []string{"reason"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lotusnews_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
