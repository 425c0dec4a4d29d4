// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iqx_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "iqx_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iqx_registrations_total",
		Help: "Successful user registrations.",
	})

	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iqx_auth_failures_total",
		Help: "Rejected authentication attempts by reason.",
	}, []string{"reason"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iqx_notifications_total",
		Help: "Registration notifications by driver and result.",
	}, []string{"driver", "result"})
)
