package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_requests_total",
		Help: "Total API requests by route and response status",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reader_request_duration_seconds",
		Help:    "API request duration in seconds by route",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"route"})

	staleServesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reader_stale_serves_total",
		Help: "Total responses served from stale cache after an upstream failure",
	}, []string{"route"})
)
