package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mopra",
			Subsystem: "manager",
			Name:      "loads_total",
			Help:      "Model load attempts by result",
		},
		[]string{"result"},
	)

	terminationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mopra",
			Subsystem: "manager",
			Name:      "terminations_total",
			Help:      "Runtime processes terminated, by pass (registry or sweep)",
		},
		[]string{"pass"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mopra",
			Subsystem: "manager",
			Name:      "runs_total",
			Help:      "Local inference invocations by status",
		},
		[]string{"status"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mopra",
			Subsystem: "manager",
			Name:      "run_duration_seconds",
			Help:      "Wall time of local inference invocations",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, terminationsTotal, runsTotal, runDuration)
}
