package obs

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SolveTotal counts allocation solves by outcome.
	SolveTotal *prometheus.CounterVec
	// SolveDuration records end-to-end solve latency in milliseconds.
	SolveDuration prometheus.Histogram
	// SolveNodes records branch-and-bound nodes explored per solve.
	SolveNodes prometheus.Histogram
	// ScenariosStored tracks the depth of the scenario history.
	ScenariosStored prometheus.Gauge
)

// MustRegisterDomainMetrics initialises and registers planner Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_total",
			Help:      "Count of allocation solves by outcome.",
		}, []string{"result"})
		SolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_ms",
			Help:      "Allocation solve latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		})
		SolveNodes = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_nodes",
			Help:      "Branch-and-bound nodes explored per solve.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		})
		ScenariosStored = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scenarios_stored",
			Help:      "Number of scenarios in the in-memory history.",
		})

		mustRegisterCollector(reg, SolveTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SolveTotal = v
			}
		})
		mustRegisterCollector(reg, SolveDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				SolveDuration = v
			}
		})
		mustRegisterCollector(reg, SolveNodes, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				SolveNodes = v
			}
		})
		mustRegisterCollector(reg, ScenariosStored, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				ScenariosStored = v
			}
		})
	})
}

// ObserveSolve records one solve outcome. Safe to call when the collectors
// were never registered (tests exercising the service directly).
func ObserveSolve(result string, elapsed time.Duration, nodes int) {
	if SolveTotal == nil {
		return
	}
	SolveTotal.WithLabelValues(result).Inc()
	SolveDuration.Observe(DurationMillis(elapsed))
	SolveNodes.Observe(float64(nodes))
}

// SetScenariosStored updates the history depth gauge.
func SetScenariosStored(n int) {
	if ScenariosStored == nil {
		return
	}
	ScenariosStored.Set(float64(n))
}
