package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	InvoicesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_issued_total",
			Help: "Total number of invoices created",
		},
	)

	SalesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_rejected_total",
			Help: "Sales rejected for exceeding remaining purchase inventory",
		},
	)
)
