// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the record pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Label values. Keep cardinality bounded: no keys, paths or file names in labels.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultSyntax   = "syntax"
	ResultError    = "error"
	ResultNotFound = "not_found"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// DecodeTotal counts decode attempts by record kind and outcome.
	DecodeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fivegms_decode_total",
		Help: "Total number of record decode attempts, by kind and result.",
	}, []string{"kind", "result"})

	// CacheLookupsTotal counts parsed-instance cache lookups.
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fivegms_cache_lookups_total",
		Help: "Total number of parsed-instance cache lookups, by result (hit/miss).",
	}, []string{"result"})

	// StoreOpsTotal counts storage operations by backend, operation and outcome.
	StoreOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fivegms_store_ops_total",
		Help: "Total number of record store operations, by backend, op and result.",
	}, []string{"backend", "op", "result"})
)

// RecordDecode increments the decode counter.
func RecordDecode(kind, result string) {
	DecodeTotal.WithLabelValues(kind, result).Inc()
}

// RecordCacheLookup increments the cache lookup counter.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookupsTotal.WithLabelValues(CacheHit).Inc()
		return
	}
	CacheLookupsTotal.WithLabelValues(CacheMiss).Inc()
}

// RecordStoreOp increments the store operation counter.
func RecordStoreOp(backend, op, result string) {
	StoreOpsTotal.WithLabelValues(backend, op, result).Inc()
}

// DecodeCount returns the current decode counter value for kind and result.
func DecodeCount(kind, result string) float64 {
	var m dto.Metric
	if err := DecodeTotal.WithLabelValues(kind, result).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
