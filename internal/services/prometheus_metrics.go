package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	accountOperationsTotal    *prometheus.CounterVec
	accountOperationDuration  *prometheus.HistogramVec
	authenticationEventsTotal *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		accountOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_account_operations_total",
				Help: "Total number of bank account operations",
			},
			[]string{"operation", "status"},
		),
		accountOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_account_operation_duration_milliseconds",
				Help:    "Bank account operation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "bank_account.operation":
		m.accountOperationsTotal.WithLabelValues(tags["operation"], tags["status"]).Inc()
	case "auth.event":
		m.authenticationEventsTotal.WithLabelValues(tags["event_type"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	m.accountOperationDuration.WithLabelValues(name).Observe(float64(duration.Milliseconds()))
}
