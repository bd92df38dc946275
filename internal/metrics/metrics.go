// Package metrics holds the Prometheus collectors of the warehouse service.
// Collectors register with the default registry on package init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path query outcomes used as the "result" label.
const (
	ResultFound    = "found"
	ResultNoPath   = "no_path"
	ResultError    = "error"
	ResultNotFound = "label_not_found"
)

var (
	// PathQueries counts path queries by outcome.
	PathQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warepath_path_query_total",
		Help: "Total path queries by result type",
	}, []string{"result"})

	// PathQueryDuration tracks path query latency.
	PathQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warepath_path_query_duration_seconds",
		Help:    "Path query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
	})

	// Expansions tracks nodes expanded per uncached search.
	Expansions = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warepath_search_expansions",
		Help:    "Nodes expanded per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// CacheLookups counts cache lookups by outcome ("hit" or "miss").
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warepath_path_cache_lookups_total",
		Help: "Total path cache lookups by outcome",
	}, []string{"outcome"})

	// PlacementRuns counts completed assignment runs.
	PlacementRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warepath_placement_runs_total",
		Help: "Total slot assignment runs",
	})

	// UnassignedProducts counts products left without a slot.
	UnassignedProducts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warepath_unassigned_products_total",
		Help: "Total products that found no empty slot",
	})

	// ActiveSessions reports the number of live warehouse sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warepath_active_sessions",
		Help: "Number of live warehouse sessions",
	})
)

// ObservePathQuery records one query outcome.
func ObservePathQuery(result string, cached bool, expanded int, elapsed time.Duration) {
	PathQueries.WithLabelValues(result).Inc()
	PathQueryDuration.Observe(elapsed.Seconds())
	if result == ResultError || result == ResultNotFound {
		return
	}
	if cached {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
	Expansions.Observe(float64(expanded))
}

// ObservePlacement records one assignment run.
func ObservePlacement(unassigned int) {
	PlacementRuns.Inc()
	UnassignedProducts.Add(float64(unassigned))
}
