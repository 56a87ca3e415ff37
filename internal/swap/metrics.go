package swap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// swapsInitiatedTotal counts swap initiations by result.
	swapsInitiatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "swaps_initiated_total",
			Help:      "Total number of swap initiations",
		},
		[]string{"result"},
	)

	// monitorSessionsTotal counts finished monitoring sessions by
	// outcome.
	monitorSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "monitor_sessions_total",
			Help:      "Total number of completed order monitoring sessions",
		},
		[]string{"outcome"},
	)

	// secretsDisclosedTotal counts disclosed fill secrets.
	secretsDisclosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "secrets_disclosed_total",
			Help:      "Total number of fill secrets disclosed",
		},
	)
)

func recordSwapInitiated(result string) {
	swapsInitiatedTotal.WithLabelValues(result).Inc()
}

func recordMonitorOutcome(outcome string) {
	monitorSessionsTotal.WithLabelValues(outcome).Inc()
}

func recordSecretDisclosed() {
	secretsDisclosedTotal.Inc()
}
