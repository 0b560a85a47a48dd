package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "http",
			Name:      "checkouts_total",
			Help:      "Total number of checkout submissions by outcome",
		},
		[]string{"result"},
	)

	checkoutDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "checkout_service",
			Subsystem: "http",
			Name:      "checkout_duration_seconds",
			Help:      "Histogram of checkout submission durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	promoValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "http",
			Name:      "promo_validations_total",
			Help:      "Total number of promo code validations by result",
		},
		[]string{"result"},
	)

	paymentSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "payment",
			Name:      "sessions_total",
			Help:      "Total number of payment session creation attempts",
		},
		[]string{"status"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		checkoutsTotal,
		checkoutDuration,
		promoValidationsTotal,
		paymentSessionsTotal,
	)
}
