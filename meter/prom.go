package meter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notevault/airouter"
)

// PromMeter exports routing metrics to Prometheus: attempts issued, results
// by outcome, per-provider latency, and accumulated cost units.
type PromMeter struct {
	attempts  *prometheus.CounterVec
	results   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	costUnits *prometheus.CounterVec
}

var _ airouter.Meter = (*PromMeter)(nil)

// NewPromMeter creates a PromMeter and registers its collectors with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewPromMeter(reg prometheus.Registerer) *PromMeter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PromMeter{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airouter_attempts_total",
			Help: "Provider attempts issued, by provider and dispatch mode.",
		}, []string{"provider", "mode"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airouter_results_total",
			Help: "Provider attempt outcomes, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "airouter_attempt_duration_seconds",
			Help:    "Observed provider call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		costUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "airouter_cost_units_total",
			Help: "Cost units spent, by provider.",
		}, []string{"provider"}),
	}

	reg.MustRegister(m.attempts, m.results, m.latency, m.costUnits)
	return m
}

func (m *PromMeter) OnRoute(e airouter.RouteEvent) {
	m.attempts.WithLabelValues(e.Provider, string(e.Mode)).Inc()
}

func (m *PromMeter) OnResult(e airouter.ResultEvent) {
	outcome := "failure"
	switch {
	case e.Success:
		outcome = "success"
	case e.Cancelled:
		outcome = "cancelled"
	}
	m.results.WithLabelValues(e.Provider, outcome).Inc()
	if !e.Cancelled {
		m.latency.WithLabelValues(e.Provider).Observe(e.Duration.Seconds())
	}
	if e.Success && e.CostUnits > 0 {
		m.costUnits.WithLabelValues(e.Provider).Add(e.CostUnits)
	}
}
