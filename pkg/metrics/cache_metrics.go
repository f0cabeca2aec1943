// Package metrics provides Prometheus metrics for the roadmap service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// cacheHitsTotal counts cache-aside lookups answered from the cache.
	// Labels:
	//   - keyspace: Logical key family (e.g., "roadmap", "roadmap_list")
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_cache_hits_total",
			Help: "Total number of cache hits on the roadmap read path",
		},
		[]string{"keyspace"},
	)

	// cacheMissesTotal counts lookups that fell through to the document store.
	cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_cache_misses_total",
			Help: "Total number of cache misses on the roadmap read path",
		},
		[]string{"keyspace"},
	)

	// cacheDegradedTotal counts cache operations that failed and were
	// absorbed by the fail-open path. These never surface to clients.
	// Labels:
	//   - op: Cache operation (e.g., "get", "set", "delete")
	cacheDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_cache_degraded_total",
			Help: "Total number of cache errors absorbed by the fail-open path",
		},
		[]string{"op"},
	)

	// storeOperationsTotal counts document store round trips.
	// Labels:
	//   - op: Store operation (e.g., "get", "list", "bulk_write", "delete")
	//   - status: "success" or "error"
	storeOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"op", "status"},
	)

	// storeOperationDuration records document store latency.
	// Buckets cover the 1ms..10s range typical for a managed store.
	storeOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
	prometheus.MustRegister(cacheDegradedTotal)
	prometheus.MustRegister(storeOperationsTotal)
	prometheus.MustRegister(storeOperationDuration)
}

// RecordCacheHit records a cache hit for the given keyspace.
func RecordCacheHit(keyspace string) {
	cacheHitsTotal.WithLabelValues(keyspace).Inc()
}

// RecordCacheMiss records a cache miss for the given keyspace.
func RecordCacheMiss(keyspace string) {
	cacheMissesTotal.WithLabelValues(keyspace).Inc()
}

// RecordCacheDegraded records a cache error absorbed by the fail-open path.
func RecordCacheDegraded(op string) {
	cacheDegradedTotal.WithLabelValues(op).Inc()
}

// RecordStoreOperation records one store round trip and its outcome.
func RecordStoreOperation(op, status string) {
	storeOperationsTotal.WithLabelValues(op, status).Inc()
}

// RecordStoreDuration records the latency of a store operation.
func RecordStoreDuration(op string, seconds float64) {
	storeOperationDuration.WithLabelValues(op).Observe(seconds)
}
