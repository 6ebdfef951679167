package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var Metrics = struct {
	InvokeRequestsTotal *prometheus.CounterVec
	InvokeDuration      *prometheus.HistogramVec
	DelegationsTotal    *prometheus.CounterVec
	RegisteredAgents    prometheus.Gauge
}{
	InvokeRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magent",
		Name:      "invoke_requests_total",
		Help:      "Total invoke requests by agent and status.",
	}, []string{"agent", "status"}),

	InvokeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "magent",
		Name:      "invoke_duration_seconds",
		Help:      "Invoke request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"agent"}),

	DelegationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magent",
		Name:      "delegations_total",
		Help:      "Total delegations by target agent and outcome.",
	}, []string{"agent", "outcome"}),

	RegisteredAgents: promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "magent",
		Name:      "registered_agents",
		Help:      "Number of agents currently registered with the coordinator.",
	}),
}
