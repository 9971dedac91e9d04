package deal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for the deal lifecycle. A nil
// *Metrics is valid and records nothing, so wiring metrics stays optional.
type Metrics struct {
	transitions  *prometheus.CounterVec
	gateFailures *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		transitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meridian_deal_transitions_total",
				Help: "Total number of deal transition attempts by outcome",
			},
			[]string{"from", "to", "result"},
		),
		gateFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meridian_deal_gate_failures_total",
				Help: "Total number of failed gate dimension evaluations",
			},
			[]string{"dimension"},
		),
	}
}

func (m *Metrics) recordTransition(from, to, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, result).Inc()
}

func (m *Metrics) recordGateFailure(dimension string) {
	if m == nil {
		return
	}
	m.gateFailures.WithLabelValues(dimension).Inc()
}
