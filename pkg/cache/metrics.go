package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks reads that found an entry, by freshness
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reader_cache_hits_total",
			Help: "Total number of cache reads that found an entry",
		},
		[]string{"freshness"}, // "fresh", "stale"
	)

	// cacheMisses tracks reads that found no entry
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reader_cache_misses_total",
			Help: "Total number of cache reads that found no entry",
		},
	)

	// cacheWrites tracks successful writes
	cacheWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reader_cache_writes_total",
			Help: "Total number of successful cache writes",
		},
	)

	// cacheErrors tracks cache operation errors
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reader_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "read", "write"
	)
)
