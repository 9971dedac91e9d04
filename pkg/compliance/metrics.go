package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for checker runs. A nil *Metrics is
// valid and records nothing, so wiring metrics stays optional.
type Metrics struct {
	runs *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		runs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meridian_checker_runs_total",
				Help: "Total number of checker runs by checker and outcome",
			},
			[]string{"checker", "outcome"},
		),
	}
}

// RecordRun counts one checker run. Exported so sibling checker packages
// can share the same counter family.
func (m *Metrics) RecordRun(checker string, passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.runs.WithLabelValues(checker, outcome).Inc()
}
