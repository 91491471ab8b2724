package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymroster_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymroster_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EnrollmentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymroster_enrollment_operations_total",
			Help: "Enrollment operations by kind and outcome",
		},
		[]string{"operation", "result"},
	)

	ScheduleConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymroster_schedule_conflicts_total",
			Help: "Activity saves rejected because the trainer slot was taken",
		},
	)

	StatisticsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gymroster_statistics_duration_seconds",
			Help:    "Time spent computing activity statistics",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymroster_notifications_total",
			Help: "Enrollment notifications by channel and status",
		},
		[]string{"channel", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymroster_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordEnrollment counts one enroll, unenroll or reassign call. result is
// "ok" or the error kind that ended it.
func RecordEnrollment(operation, result string) {
	EnrollmentOperationsTotal.WithLabelValues(operation, result).Inc()
}

func RecordScheduleConflict() {
	ScheduleConflictsTotal.Inc()
}

func RecordStatistics(seconds float64) {
	StatisticsDuration.Observe(seconds)
}

func RecordNotification(channel, status string) {
	NotificationsTotal.WithLabelValues(channel, status).Inc()
}
