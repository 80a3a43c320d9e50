package bridge

import "github.com/prometheus/client_golang/prometheus"

var (
	pollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pcagent_polls_total",
			Help: "Number of status polls issued to the PC agent.",
		},
	)
	pollFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pcagent_poll_failures_total",
			Help: "Number of status polls that failed or returned a malformed response.",
		},
	)
	agentOnline = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pcagent_agent_online",
			Help: "Whether the PC agent reported the PC as reachable (1) or offline (0).",
		},
	)
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcagent_commands_total",
			Help: "Commands received over MQTT, by command.",
		},
		[]string{"command"},
	)
)

// NewMetricsRegistry returns a registry with all bridge metrics registered.
func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(pollsTotal)
	registry.MustRegister(pollFailuresTotal)
	registry.MustRegister(agentOnline)
	registry.MustRegister(commandsTotal)

	return registry
}
