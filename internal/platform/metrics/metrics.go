package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_blocked_total",
			Help: "Total number of requests blocked by rate limiter, by method",
		},
		[]string{"method"},
	)

	DomainErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_errors_total",
			Help: "Total number of domain errors by kind and code",
		},
		[]string{"kind", "code", "status"},
	)

	LoansBorrowedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_loans_borrowed_total",
			Help: "Total number of loans opened",
		},
	)

	LoansReturnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_loans_returned_total",
			Help: "Total number of loans closed",
		},
	)

	BorrowRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrow_rejected_total",
			Help: "Total number of rejected borrow attempts by reason",
		},
		[]string{"reason"},
	)
)
