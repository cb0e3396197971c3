package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recalculation failures are swallowed at the Recalc boundary by design, so
// these metrics are the only way a stuck or stale scope becomes visible.
var (
	recalcRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_recalc_runs_total",
		Help: "Total settlement recalculation runs.",
	})

	recalcFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitledger_recalc_failures_total",
		Help: "Recalculation runs that failed, by pipeline stage.",
	}, []string{"stage"})

	recalcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitledger_recalc_duration_seconds",
		Help:    "Wall time of a full recalculation run.",
		Buckets: prometheus.DefBuckets,
	})

	recalcMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitledger_recalc_mutations_total",
		Help: "Settlement store mutations applied by recalculation, by operation.",
	}, []string{"op"})
)

func observeMutations(m Mutations) {
	recalcMutations.WithLabelValues("create").Add(float64(len(m.Creates)))
	recalcMutations.WithLabelValues("update").Add(float64(len(m.Updates)))
	recalcMutations.WithLabelValues("delete").Add(float64(len(m.Deletes)))
}
