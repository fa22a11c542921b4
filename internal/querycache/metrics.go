package querycache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querycache_reads_total",
			Help: "Cache reads by entity kind and outcome (hit, stale, miss)",
		},
		[]string{"kind", "outcome"},
	)

	fetchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "querycache_fetches_in_flight",
			Help: "Number of backend fetches currently running",
		},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querycache_fetch_failures_total",
			Help: "Failed backend fetches by entity kind",
		},
		[]string{"kind"},
	)
)
