package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Search requests by outcome",
		},
		[]string{"status"},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "End-to-end search pipeline duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	searchResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results_per_request",
			Help:    "Results returned per search after relevance filtering",
			Buckets: []float64{0, 1, 2, 5, 10, 12, 20, 50},
		},
	)

	suggestCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_suggest_cache_hits_total",
			Help: "Suggestion requests answered from cache",
		},
	)

	suggestCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_suggest_cache_misses_total",
			Help: "Suggestion requests that had to run the pipeline",
		},
	)
)

const (
	outcomeOK     = "ok"
	outcomeBlank  = "blank"
	outcomeFailed = "failed"
)
