package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamRequests counts products API calls by operation and outcome.
var UpstreamRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dashboard_upstream_requests_total",
		Help: "Total number of requests sent to the products API",
	},
	[]string{"operation", "outcome"},
)

// UpstreamLatency records the latency of products API calls, retries included.
var UpstreamLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dashboard_upstream_request_duration_seconds",
		Help:    "Latency in seconds of products API calls",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// Analytics aggregation metrics
var (
	AnalyticsRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_analytics_runs_total",
			Help: "Number of analytics reports computed",
		},
	)

	AnalyticsRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_analytics_records",
			Help:    "Number of product records per analytics report",
			Buckets: []float64{0, 10, 30, 100, 200, 500},
		},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequests, UpstreamLatency)
	prometheus.MustRegister(AnalyticsRuns, AnalyticsRecords)
}

// ObserveUpstream records one products API call.
func ObserveUpstream(operation string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	UpstreamLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveAnalytics records one analytics report over n records.
func ObserveAnalytics(n int) {
	AnalyticsRuns.Inc()
	AnalyticsRecords.Observe(float64(n))
}
