// pkg/logger/formatter.go

package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type CustomFormatter struct {
	TimestampFormat string
	FullTimestamp   bool
}

const (
	red    = 31
	green  = 32
	yellow = 33
	blue   = 36
	gray   = 37
)

// leading fields are printed first, in this order, when present
var leadingFields = []string{"method", "path", "status", "latency", "client_ip", "session_id", "ride_id", "key"}

func getColorByLevel(level logrus.Level) int {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return red
	case logrus.WarnLevel:
		return yellow
	case logrus.DebugLevel, logrus.TraceLevel:
		return gray
	default:
		return blue
	}
}

func getColorByMethod(method string) int {
	switch strings.ToUpper(method) {
	case "GET":
		return blue
	case "POST", "PUT":
		return green
	case "DELETE":
		return red
	default:
		return gray
	}
}

func getColorByStatus(status interface{}) int {
	code, ok := status.(int)
	switch {
	case !ok:
		return gray
	case code >= 400:
		return red
	case code >= 300:
		return yellow
	default:
		return green
	}
}

func colorize(color int, msg string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, msg)
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = &bytes.Buffer{}
	}

	layout := f.TimestampFormat
	if layout == "" {
		layout = time.RFC3339
	}
	timestamp := entry.Time.Format(layout)
	if !f.FullTimestamp {
		if _, clock, found := strings.Cut(timestamp, "T"); found {
			timestamp = clock
		}
	}

	level := strings.ToUpper(entry.Level.String())
	coloredLevel := colorize(getColorByLevel(entry.Level), fmt.Sprintf("%-7s", level))

	fields := make([]string, 0, len(entry.Data))
	seen := make(map[string]bool, len(leadingFields))
	for _, k := range leadingFields {
		v, ok := entry.Data[k]
		if !ok {
			continue
		}
		seen[k] = true
		switch k {
		case "method":
			fields = append(fields, colorize(getColorByMethod(fmt.Sprint(v)), fmt.Sprintf("method=%-6s", v)))
		case "status":
			fields = append(fields, colorize(getColorByStatus(v), fmt.Sprintf("status=%v", v)))
		default:
			fields = append(fields, fmt.Sprintf("%s=%v", k, v))
		}
	}

	rest := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fields = append(fields, fmt.Sprintf("%s=%v", k, entry.Data[k]))
	}

	if entry.HasCaller() {
		fields = append(fields, colorize(gray, fmt.Sprintf("file=%s:%d", entry.Caller.File, entry.Caller.Line)))
		fields = append(fields, colorize(gray, fmt.Sprintf("func=%s", entry.Caller.Function)))
	}

	if len(fields) > 0 {
		fmt.Fprintf(buf, "%s %s %s | %s\n",
			colorize(gray, timestamp),
			coloredLevel,
			entry.Message,
			strings.Join(fields, " "),
		)
	} else {
		fmt.Fprintf(buf, "%s %s %s\n",
			colorize(gray, timestamp),
			coloredLevel,
			entry.Message,
		)
	}

	return buf.Bytes(), nil
}
