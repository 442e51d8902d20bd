// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geomaster_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geomaster_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ActivityEntries counts log entries by outcome: written, dropped, failed.
	ActivityEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geomaster_activity_entries_total",
			Help: "Activity log entries by outcome",
		},
		[]string{"result"},
	)

	// ExperimentScan observes lookup latency with and without the index.
	ExperimentScan = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geomaster_experiment_scan_seconds",
			Help:    "Experiment lookup duration by index mode",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"mode"},
	)
)
