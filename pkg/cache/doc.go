// Package cache provides the durable payload store behind the reader
// proxy: a deterministic key scheme plus file- and Redis-backed
// key/value stores with TTL-based freshness evaluation.
//
// The store is a best-effort accelerator, not a source of truth:
// entries are superseded, never purged, there is no capacity bound and
// no per-key locking. Freshness is evaluated at read time against a
// fixed TTL; stale entries remain readable so the proxy can serve them
// as a fallback when the upstream service fails.
//
// # Basic Usage
//
//	store, err := cache.NewFileStore("/var/cache/reader", time.Hour, logger)
//	if err != nil {
//		return err
//	}
//
//	key := cache.Key{
//		Namespace:  "poems",
//		Identifier: "some_author",
//		Params:     map[string]*string{"page": nil},
//	}
//
//	entry, err := store.Read(ctx, key)
//	if errors.Is(err, cache.ErrNotFound) {
//		// miss - fetch from upstream, then Write
//	}
//
// # Metrics
//
// The stores export Prometheus metrics:
//
//   - reader_cache_hits_total{freshness} - reads that found an entry
//   - reader_cache_misses_total - reads that found nothing
//   - reader_cache_writes_total - successful writes
//   - reader_cache_errors_total{operation} - read/write faults
package cache
