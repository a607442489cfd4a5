package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed analysis runs.
	OutcomeSuccess = "success"
	// OutcomeError labels runs aborted by a pipeline or input error.
	OutcomeError = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendlens",
			Name:      "runs_total",
			Help:      "Total number of analysis runs, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	runDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "spendlens",
			Name:      "run_seconds",
			Help:      "Analysis run duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	interpolatedValuesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spendlens",
			Name:      "interpolated_values_total",
			Help:      "Total number of missing visit values filled by interpolation.",
		},
	)

	flaggedOutliersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spendlens",
			Name:      "flagged_outliers_total",
			Help:      "Total number of visit values flagged as outliers.",
		},
	)
)

// Register attaches spendlens collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		runsTotal,
		runDurationSeconds,
		interpolatedValuesTotal,
		flaggedOutliersTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRun records a run duration and outcome label.
func ObserveRun(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	runsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	runDurationSeconds.Observe(duration.Seconds())
}

// ObserveDataset records per-run data quality counts.
func ObserveDataset(interpolated, outliers int) {
	if interpolated > 0 {
		interpolatedValuesTotal.Add(float64(interpolated))
	}
	if outliers > 0 {
		flaggedOutliersTotal.Add(float64(outliers))
	}
}
