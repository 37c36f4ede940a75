package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DisbursementsTotal counts disbursement calls by variant and outcome.
	DisbursementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disburser_disbursements_total",
			Help: "Total number of disbursement calls",
		},
		[]string{"variant", "outcome"},
	)

	// DepositsTotal counts unsolicited native deposits accepted by the engine.
	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disburser_deposits_total",
		Help: "Total number of unsolicited native deposits accepted",
	})

	// SweepsTotal counts sweep claims by outcome.
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disburser_sweeps_total",
			Help: "Total number of sweep claims",
		},
		[]string{"outcome"},
	)

	// HTTPRequestDuration observes HTTP request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "disburser_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// Outcome returns the metric label for an operation result
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
