package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload outcomes used as the status label of UploadsTotal.
const (
	UploadSuccess  = "success"
	UploadRejected = "rejected"
	UploadError    = "error"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "giftfinder",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	ClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "tracking",
			Name:      "clicks_total",
			Help:      "Affiliate link clicks recorded",
		},
		[]string{"duplicate"},
	)

	ConversionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "tracking",
			Name:      "conversions_total",
			Help:      "Affiliate conversions recorded",
		},
	)

	ConversionValueTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "tracking",
			Name:      "conversion_value_total",
			Help:      "Sum of converted order values",
		},
		[]string{"currency"},
	)

	StatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "tracking",
			Name:      "stats_cache_total",
			Help:      "Stats cache lookups by result",
		},
		[]string{"result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Total media uploads",
		},
		[]string{"content_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "media",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"content_type"},
	)

	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftfinder",
			Subsystem: "feedback",
			Name:      "submissions_total",
			Help:      "Recommendation feedback submissions",
		},
		[]string{"action"},
	)
)

func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

func RecordClick(duplicate bool) {
	label := "false"
	if duplicate {
		label = "true"
	}
	ClicksTotal.WithLabelValues(label).Inc()
}

func RecordConversion(currency string, value float64) {
	ConversionsTotal.Inc()
	ConversionValueTotal.WithLabelValues(currency).Add(value)
}

func RecordStatsCache(hit bool) {
	if hit {
		StatsCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	StatsCacheTotal.WithLabelValues("miss").Inc()
}

func RecordUpload(contentType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(contentType, status).Inc()
	if status == UploadSuccess {
		UploadBytesTotal.WithLabelValues(contentType).Add(float64(bytes))
	}
}

func RecordFeedback(action string) {
	FeedbackTotal.WithLabelValues(action).Inc()
}
