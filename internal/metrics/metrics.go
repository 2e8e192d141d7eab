// Package metrics exposes the scheduler's ambient observability surface:
// a matches-served counter and gauges for queue depth and current phase,
// in the idiom replay-api and luxfi-consensus use for their own request
// and consensus-round counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the scheduler's prometheus collectors.
type Metrics struct {
	MatchesServed prometheus.Counter
	QueueDepth    prometheus.Gauge
	SchedulerPhase *prometheus.GaugeVec
}

// New registers and returns the scheduler's collectors against the
// default registry.
func New() *Metrics {
	return &Metrics{
		MatchesServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_matches_served_total",
			Help: "Total number of matches handed to a judge via give-judge-next-match.",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_queue_depth",
			Help: "Current number of matches in the priority queue.",
		}),
		SchedulerPhase: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scheduler_phase",
			Help: "1 for the currently active phase, 0 otherwise.",
		}, []string{"phase"}),
	}
}

// SetPhase records phase as the only active phase in the gauge vector.
func (m *Metrics) SetPhase(active string, all []string) {
	for _, p := range all {
		if p == active {
			m.SchedulerPhase.WithLabelValues(p).Set(1)
		} else {
			m.SchedulerPhase.WithLabelValues(p).Set(0)
		}
	}
}
