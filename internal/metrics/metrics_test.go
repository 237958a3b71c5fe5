package metrics

import (
	"bytes"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics(logrus.New())

	stats := m.GetStats()
	assert.Zero(t, stats.OTPVerified)
	assert.Zero(t, stats.TotalRequests)
	assert.True(t, stats.StartTime > 0)
}

func TestSessionLifecycleCounters(t *testing.T) {
	m := NewMetrics(logrus.New())

	m.IncrementSessionsCreated()
	m.IncrementSessionsCreated()
	m.SessionClosed()
	m.IncrementSessionsExpired()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.SessionsCreated)
	assert.Equal(t, int64(1), stats.ActiveOTPSessions)
	assert.Equal(t, int64(1), stats.SessionsExpired)
}

func TestIncrementCounters(t *testing.T) {
	tests := []struct {
		name      string
		increment func(*Metrics)
		read      func(Stats) int64
	}{
		{"preference writes", (*Metrics).IncrementPreferenceWrites, func(s Stats) int64 { return s.PreferenceWrites }},
		{"otp verified", (*Metrics).IncrementOTPVerified, func(s Stats) int64 { return s.OTPVerified }},
		{"otp invalid", (*Metrics).IncrementOTPInvalid, func(s Stats) int64 { return s.OTPInvalid }},
		{"otp resends", (*Metrics).IncrementOTPResends, func(s Stats) int64 { return s.OTPResends }},
		{"ride offers", (*Metrics).IncrementRideOffers, func(s Stats) int64 { return s.RideOffers }},
		{"rides accepted", (*Metrics).IncrementRidesAccepted, func(s Stats) int64 { return s.RidesAccepted }},
		{"rides declined", (*Metrics).IncrementRidesDeclined, func(s Stats) int64 { return s.RidesDeclined }},
		{"trips completed", (*Metrics).IncrementTripsCompleted, func(s Stats) int64 { return s.TripsCompleted }},
		{"rate limited", (*Metrics).IncrementRateLimited, func(s Stats) int64 { return s.RateLimited }},
		{"publish errors", (*Metrics).IncrementPublishErrors, func(s Stats) int64 { return s.PublishErrors }},
		{"total requests", (*Metrics).IncrementTotalRequests, func(s Stats) int64 { return s.TotalRequests }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics(logrus.New())
			tt.increment(m)
			assert.Equal(t, int64(1), tt.read(m.GetStats()))
		})
	}
}

func TestConcurrentIncrements(t *testing.T) {
	m := NewMetrics(logrus.New())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IncrementTotalRequests()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5000), m.GetStats().TotalRequests)
}

func TestLogMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	m := NewMetrics(logger)
	m.IncrementOTPVerified()
	m.LogMetrics()

	assert.Contains(t, buf.String(), `"otp_verified":1`)
	assert.Contains(t, buf.String(), "Application metrics")
}
