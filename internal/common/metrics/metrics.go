package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Total number of application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_submission_duration_seconds",
			Help: "Duration of the submission workflow in seconds",
		},
		[]string{"outcome"},
	)

	IDAllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_id_allocations_total",
			Help: "Total number of sequence values handed out",
		},
		[]string{"backend"},
	)

	IDAllocationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_id_allocation_failures_total",
			Help: "Total number of failed sequence allocations",
		},
		[]string{"backend"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_notifications_sent_total",
			Help: "Total number of notifications delivered to the transport",
		},
		[]string{"kind", "channel"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_notifications_failed_total",
			Help: "Total number of notifications that could not be sent",
		},
		[]string{"kind", "channel"},
	)

	NotificationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_notifications_in_flight",
			Help: "Number of notification batches currently being sent",
		},
	)

	IndexFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_search_index_failures_total",
			Help: "Total number of applications that could not be indexed for search",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
