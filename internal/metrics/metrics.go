// Package metrics holds the service's prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRunsTotal counts update checks by outcome: "changed",
	// "unchanged", "fetch_failed", "persist_failed".
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallkeep",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Update checks by outcome.",
		},
		[]string{"outcome"},
	)

	// AssetFetchesTotal counts per-wallpaper asset pair fetches.
	AssetFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallkeep",
			Subsystem: "cache",
			Name:      "asset_fetches_total",
			Help:      "Asset pair fetches by result.",
		},
		[]string{"result"},
	)

	// GCDeletionsTotal counts assets removed by reachability sweeps.
	GCDeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wallkeep",
			Subsystem: "gc",
			Name:      "deletions_total",
			Help:      "Cached assets removed by the garbage collector.",
		},
	)
)
