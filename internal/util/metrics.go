package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of backend API requests issued by the client",
	}, []string{"method", "path", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Latency of backend API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	APITransportErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "api_transport_errors_total",
		Help: "Total number of requests that never reached the backend",
	}, []string{"method", "path"})

	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mutations_total",
		Help: "Total number of entity mutations by outcome",
	}, []string{"entity", "operation", "outcome"})

	ListLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "list_loads_total",
		Help: "Total number of collection loads by outcome",
	}, []string{"entity", "outcome"})

	StockAdjustmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of cached product stock adjustments after order creation",
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Total number of transient notifications by level",
	}, []string{"level"})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
