// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PublishRunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_runs_completed_total",
			Help: "Total number of publish runs that reached Succeeded",
		},
		[]string{"mode"},
	)

	PublishRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_runs_failed_total",
			Help: "Total number of publish runs that reached Failed",
		},
		[]string{"mode", "error_code"},
	)

	PublishRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "publish_run_duration_seconds",
			Help: "Duration of a whole publish run in seconds",
		},
		[]string{"mode"},
	)

	PublishStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "publish_step_duration_seconds",
			Help: "Duration of individual publish steps in seconds",
		},
		[]string{"mode", "step"},
	)

	CarouselSlides = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "publish_carousel_slides",
			Help:    "Number of slides per published carousel",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	MarkupParses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "markup_parses_total",
			Help: "Total number of markup preview parses served",
		},
	)
)
