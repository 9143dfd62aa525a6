// Package metrics holds the Prometheus collectors exported on the metrics
// port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mealmate",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mealmate",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Generations counts recipe generations by result: ok, upstream_error,
	// malformed.
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mealmate",
		Name:      "recipe_generations_total",
		Help:      "Recipe generation attempts by result.",
	}, []string{"result"})

	// ImageLookups counts image enrichment attempts by result: found, none,
	// error.
	ImageLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mealmate",
		Name:      "image_lookups_total",
		Help:      "Recipe image lookups by result.",
	}, []string{"result"})
)
