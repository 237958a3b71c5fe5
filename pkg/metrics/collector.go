// pkg/metrics/collector.go

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cab_booking",
			Name:      "request_duration_seconds",
			Help:      "Time taken to process request",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cab_booking",
			Name:      "storage_operation_duration_seconds",
			Help:      "Time taken for durable preference storage operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"operation", "backend"},
	)

	PreferenceWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cab_booking",
			Name:      "preference_writes_total",
			Help:      "Durable preference writes by outcome",
		},
		[]string{"key", "status"},
	)

	PreferenceLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cab_booking",
			Name:      "preference_loads_total",
			Help:      "Preference hydrations by result",
		},
		[]string{"key", "result"},
	)

	OTPVerificationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cab_booking",
			Name:      "otp_verification_total",
			Help:      "Total number of trip-start code evaluations",
		},
		[]string{"status"},
	)

	OTPResendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cab_booking",
			Name:      "otp_resend_total",
			Help:      "Resend attempts by outcome",
		},
		[]string{"status"},
	)

	ActiveOTPSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cab_booking",
			Name:      "otp_active_sessions",
			Help:      "Number of open trip-start verification sessions",
		},
	)

	RideRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cab_booking",
			Name:      "ride_requests_total",
			Help:      "Simulated ride requests by outcome",
		},
		[]string{"outcome"},
	)

	StorageConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cab_booking",
			Name:      "storage_connection_status",
			Help:      "Current durable storage status (1 for connected, 0 for disconnected)",
		},
	)
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordStorageOperation records the duration of a durable storage operation
func RecordStorageOperation(operation, backend string, start time.Time) {
	StorageOperationDuration.WithLabelValues(operation, backend).Observe(time.Since(start).Seconds())
}

// RecordRequest records the duration of an HTTP request
func RecordRequest(method, endpoint string, code int, start time.Time) {
	RequestDuration.WithLabelValues(method, endpoint, strconv.Itoa(code)).Observe(time.Since(start).Seconds())
}

// RecordPreferenceWrite records a durable preference write
func RecordPreferenceWrite(key string, success bool) {
	PreferenceWritesTotal.WithLabelValues(key, status(success)).Inc()
}

// RecordPreferenceLoad records a hydration result: found, not_found, error or stale
func RecordPreferenceLoad(key, result string) {
	PreferenceLoadsTotal.WithLabelValues(key, result).Inc()
}

// RecordOTPVerification records a code evaluation
func RecordOTPVerification(success bool) {
	OTPVerificationTotal.WithLabelValues(status(success)).Inc()
}

// RecordOTPResend records a resend attempt
func RecordOTPResend(success bool) {
	OTPResendTotal.WithLabelValues(status(success)).Inc()
}

// RecordRideRequest records a ride request outcome
func RecordRideRequest(outcome string) {
	RideRequestsTotal.WithLabelValues(outcome).Inc()
}

// UpdateStorageConnectionStatus updates the storage connection status
func UpdateStorageConnectionStatus(connected bool) {
	if connected {
		StorageConnectionStatus.Set(1)
	} else {
		StorageConnectionStatus.Set(0)
	}
}
