package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPreferenceWrite(t *testing.T) {
	before := testutil.ToFloat64(PreferenceWritesTotal.WithLabelValues("collector_test", "failure"))
	RecordPreferenceWrite("collector_test", false)
	after := testutil.ToFloat64(PreferenceWritesTotal.WithLabelValues("collector_test", "failure"))

	assert.Equal(t, before+1, after)
}

func TestRecordOTPVerification(t *testing.T) {
	before := testutil.ToFloat64(OTPVerificationTotal.WithLabelValues("success"))
	RecordOTPVerification(true)
	assert.Equal(t, before+1, testutil.ToFloat64(OTPVerificationTotal.WithLabelValues("success")))
}

func TestUpdateStorageConnectionStatus(t *testing.T) {
	UpdateStorageConnectionStatus(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(StorageConnectionStatus))

	UpdateStorageConnectionStatus(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(StorageConnectionStatus))
}

func TestRecordRequest_StatusLabel(t *testing.T) {
	RecordRequest("GET", "/collector-test", 404, time.Now())
	assert.GreaterOrEqual(t, testutil.CollectAndCount(RequestDuration), 1)
}
