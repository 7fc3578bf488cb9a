package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	PollCycles       prometheus.Counter
	FetchedCount     prometheus.Counter
	MatchCount       prometheus.Counter
	RewriteCount     prometheus.Counter
	RewriteFailures  prometheus.Counter
	ForwardSuccesses prometheus.Counter
	ForwardFailures  prometheus.Counter
	FloodWaits       prometheus.Counter
	BaselineInits    prometheus.Counter
	ProcessingTime   prometheus.Histogram
	ActiveMappings   prometheus.Gauge
	UnpostedBacklog  prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		PollCycles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_poll_cycles_total",
			Help: "Total number of polling cycles over active mappings",
		}),
		FetchedCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_fetched_messages_total",
			Help: "Total number of candidate messages fetched from source channels",
		}),
		MatchCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_match_count",
			Help: "Total number of messages that matched mapping criteria",
		}),
		RewriteCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_rewrite_count",
			Help: "Total number of AI rewrite invocations",
		}),
		RewriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_rewrite_failures",
			Help: "Total number of AI rewrite failures that fell back to original text",
		}),
		ForwardSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_forward_successes",
			Help: "Total number of messages successfully posted to target channels",
		}),
		ForwardFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_forward_failures",
			Help: "Total number of failed posting attempts",
		}),
		FloodWaits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_flood_waits",
			Help: "Total number of flood-wait signals received from the transport",
		}),
		BaselineInits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "channel_relay_baseline_inits",
			Help: "Total number of mapping cursors initialized via baseline records",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "channel_relay_processing_duration_seconds",
			Help:    "Time spent processing a full polling cycle",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveMappings: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "channel_relay_active_mappings",
			Help: "Number of currently active channel mappings",
		}),
		UnpostedBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "channel_relay_unposted_backlog",
			Help: "Number of processed records not yet posted to their target channel",
		}),
	}
}
