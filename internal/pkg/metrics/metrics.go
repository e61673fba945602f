package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "medcamp_http_requests_total", Help: "HTTP requests by method, route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "medcamp_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	Registrations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "medcamp_registrations_total", Help: "Camp registrations created"},
	)
	Payments = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "medcamp_payments_total", Help: "Payments recorded"},
	)
	PaymentIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "medcamp_payment_intents_total", Help: "Payment intents by outcome"},
		[]string{"outcome"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "medcamp_auth_failures_total", Help: "Rejected requests by status"},
		[]string{"status"},
	)
)

var once sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, Registrations, Payments, PaymentIntents, AuthFailures)
	})
}
