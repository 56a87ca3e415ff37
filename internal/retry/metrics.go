package retry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// retryAttemptsTotal counts retry attempts per operation.
	retryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "retry_attempts_total",
			Help:      "Total number of retry attempts",
		},
		[]string{"operation", "attempt"},
	)

	// retryRecoveredTotal counts operations that succeeded after at
	// least one retry.
	retryRecoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "retry_recovered_total",
			Help:      "Total number of operations that succeeded after retry",
		},
		[]string{"operation"},
	)

	// retryExhaustedTotal counts operations that failed after all
	// retry attempts.
	retryExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "retry_exhausted_total",
			Help:      "Total number of operations that failed after all retry attempts",
		},
		[]string{"operation"},
	)

	// retryAbortedTotal counts operations that failed with a
	// non-retryable error.
	retryAbortedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sillyboy",
			Name:      "retry_aborted_total",
			Help:      "Total number of operations aborted on a non-retryable error",
		},
		[]string{"operation"},
	)
)

func recordAttempt(operation string, attempt int) {
	retryAttemptsTotal.WithLabelValues(operation, strconv.Itoa(attempt)).Inc()
}

func recordRecovered(operation string) {
	retryRecoveredTotal.WithLabelValues(operation).Inc()
}

func recordExhausted(operation string) {
	retryExhaustedTotal.WithLabelValues(operation).Inc()
}

func recordAborted(operation string) {
	retryAbortedTotal.WithLabelValues(operation).Inc()
}
