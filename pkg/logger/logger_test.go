package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		expected logrus.Level
	}{
		{name: "Release mode", mode: "release", expected: logrus.InfoLevel},
		{name: "Debug mode", mode: "debug", expected: logrus.DebugLevel},
		{name: "Test mode", mode: "test", expected: logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(&Config{Mode: tt.mode, JSONFormat: true, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.expected, GetLogger().Level)
		})
	}
}

func TestInitLogger_ReleaseJSON(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(&Config{Mode: "release", JSONFormat: true, Output: &buf})

	WithFields(logrus.Fields{"key": "theme"}).Info("preference saved")

	assert.Contains(t, buf.String(), `"key":"theme"`)
	assert.Contains(t, buf.String(), `"msg":"preference saved"`)
}

func TestCustomFormatter_LeadingFieldsFirst(t *testing.T) {
	f := &CustomFormatter{FullTimestamp: true}
	entry := logrus.NewEntry(logrus.New())
	entry.Message = "digit entered"
	entry.Level = logrus.InfoLevel
	entry.Data = logrus.Fields{
		"zeta":       1,
		"session_id": "abc",
		"status":     "not-a-number",
	}

	out, err := f.Format(entry)
	assert.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "digit entered")
	assert.Less(t, bytes.Index(out, []byte("session_id=abc")), bytes.Index(out, []byte("zeta=1")))
	assert.Contains(t, line, "status=not-a-number")
}

func TestInitLogger_CallerOnlyWhenVerbose(t *testing.T) {
	InitLogger(&Config{Mode: "release", ReportCaller: true, Output: &bytes.Buffer{}})
	assert.False(t, GetLogger().ReportCaller)
	_, isText := GetLogger().Formatter.(*CustomFormatter)
	assert.True(t, isText, "text format unless JSON is asked for")

	InitLogger(&Config{Mode: "debug", ReportCaller: true, JSONFormat: true, Output: &bytes.Buffer{}})
	assert.True(t, GetLogger().ReportCaller)
	_, isText = GetLogger().Formatter.(*CustomFormatter)
	assert.True(t, isText, "verbose modes always log text")
}
