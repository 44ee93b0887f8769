package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_upstream_requests_total",
		Help: "Total upstream requests by operation and status",
	}, []string{"operation", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reader_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"operation"})

	upstreamRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_upstream_retries_total",
		Help: "Total upstream retry attempts by operation",
	}, []string{"operation"})
)
