package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for turn processing.
type EngineMetrics struct {
	turnsTotal       *prometheus.CounterVec
	revealsTotal     prometheus.Counter
	conversionsTotal prometheus.Counter
	phaseTransitions *prometheus.CounterVec
	turnLatency      prometheus.Histogram
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanloop",
			Subsystem: "engine",
			Name:      "turns_total",
			Help:      "Total inbound turns processed",
		}, []string{"intent"}),
		revealsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fanloop",
			Subsystem: "engine",
			Name:      "reveals_total",
			Help:      "Total conversations where the offering was revealed",
		}),
		conversionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fanloop",
			Subsystem: "engine",
			Name:      "conversions_total",
			Help:      "Total detected conversions",
		}),
		phaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fanloop",
			Subsystem: "engine",
			Name:      "phase_transitions_total",
			Help:      "Phase transitions by source and destination",
		}, []string{"from", "to"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fanloop",
			Subsystem: "engine",
			Name:      "turn_latency_seconds",
			Help:      "Latency of inbound turn processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.revealsTotal, m.conversionsTotal, m.phaseTransitions, m.turnLatency)
	return m
}

func (m *EngineMetrics) ObserveTurn(intentLabel string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intentLabel).Inc()
}

func (m *EngineMetrics) ObserveReveal() {
	if m == nil {
		return
	}
	m.revealsTotal.Inc()
}

func (m *EngineMetrics) ObserveConversion() {
	if m == nil {
		return
	}
	m.conversionsTotal.Inc()
}

func (m *EngineMetrics) ObservePhaseTransition(from, to string) {
	if m == nil {
		return
	}
	m.phaseTransitions.WithLabelValues(from, to).Inc()
}

func (m *EngineMetrics) ObserveTurnLatency(seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.Observe(seconds)
}
