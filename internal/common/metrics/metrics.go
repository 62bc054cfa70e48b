// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	PostersRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "posters_rendered_total",
			Help: "Total number of posters composited, by layout",
		},
		[]string{"layout"},
	)

	SharesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shares_dispatched_total",
			Help: "Total number of share actions, by platform and delivery method",
		},
		[]string{"platform", "method"},
	)

	AnalyticsEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_events_dropped_total",
			Help: "Usage analytics events dropped because the recorder queue was full",
		},
	)
)
