package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LeadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadforge_leads_created_total",
			Help: "Total number of leads created",
		},
	)

	Conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadforge_conversions_total",
			Help: "Lead to opportunity conversions by result",
		},
		[]string{"result"},
	)

	StorageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadforge_storage_fallbacks_total",
			Help: "Reads that fell back to defaults, by key",
		},
		[]string{"key"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadforge_notification_failures_total",
			Help: "Notifications that could not be delivered, by channel",
		},
		[]string{"channel"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadforge_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func RecordConversion(result string) {
	Conversions.WithLabelValues(result).Inc()
}

func RecordStorageFallback(key string) {
	StorageFallbacks.WithLabelValues(key).Inc()
}

func RecordNotificationFailure(channel string) {
	NotificationFailures.WithLabelValues(channel).Inc()
}
