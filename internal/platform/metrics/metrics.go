package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// PlanRequests counts planning runs by strategy and outcome
	// (ok, infeasible, error, cached).
	PlanRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tour_plan_requests_total", Help: "Tour planning runs by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)

	// PlanDuration records end-to-end planning durations in seconds.
	// Solver-backed strategies can run far longer than HTTP norms, hence
	// the wide buckets.
	PlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tour_plan_duration_seconds",
			Help:    "Tour planning duration in seconds.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"strategy"},
	)
)

var regOnce sync.Once

// Register installs the service collectors on the registry, once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(PlanRequests)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
