// Package metrics exposes Prometheus instrumentation for product evaluations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

// Metrics provides observability for the scoring engine and rescorer.
type Metrics struct {
	// Evaluations by recommendation and trigger
	Evaluations *prometheus.CounterVec

	// Gate outcomes by gate and result
	GateOutcomes *prometheus.CounterVec

	// Distribution of composite scores
	Scores prometheus.Histogram

	// Time spent evaluating and persisting one product
	EvaluateLatency prometheus.Histogram

	// Products left pending after the last rescore tick
	PendingProducts prometheus.Gauge
}

// New registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "playbook_evaluations_total",
			Help: "Total product evaluations by recommendation and trigger",
		}, []string{"recommendation", "trigger"}),

		GateOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "playbook_gate_outcomes_total",
			Help: "Gate checks by gate name and result",
		}, []string{"gate", "result"}), // result: "pass", "fail"

		Scores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "playbook_score",
			Help:    "Composite opportunity scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		EvaluateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "playbook_evaluate_duration_seconds",
			Help:    "Duration of a product evaluation including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		PendingProducts: f.NewGauge(prometheus.GaugeOpts{
			Name: "playbook_pending_products",
			Help: "Products awaiting evaluation at the last rescore tick",
		}),
	}
}

// ObserveEvaluation records the outcome of one engine run.
func (m *Metrics) ObserveEvaluation(ev *scoring.Evaluation, trigger string) {
	if m == nil || ev == nil {
		return
	}
	m.Evaluations.WithLabelValues(string(ev.Recommendation), trigger).Inc()
	m.Scores.Observe(float64(ev.Score))
	for gate, ok := range ev.Gates.Map() {
		result := "fail"
		if ok {
			result = "pass"
		}
		m.GateOutcomes.WithLabelValues(string(gate), result).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// SetPending records the pending backlog size.
func (m *Metrics) SetPending(n int) {
	if m != nil {
		m.PendingProducts.Set(float64(n))
	}
}
