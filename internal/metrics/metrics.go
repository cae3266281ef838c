// Package metrics holds the Prometheus collectors of the intake pipeline.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReportsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_reports_submitted_total",
		Help: "Reports stored by the intake endpoint",
	}, []string{"category", "sentiment"})

	ClassifierFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_classifier_failures_total",
		Help: "Failed calls to the sentiment service or the category model",
	}, []string{"classifier"})

	DispatchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_dispatch_outcomes_total",
		Help: "Per-report dispatch outcomes",
	}, []string{"category", "outcome"})

	SinkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "complaint_sink_duration_seconds",
		Help:    "Latency of notification sink calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"sink"})
)

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
