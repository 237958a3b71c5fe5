// pkg/logger/logger.go

// Package logger owns the process-wide logrus instance every package logs
// through.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Config selects level, format and destination. Mode is the server mode:
// "debug" and "test" log verbosely in text, anything else at info.
type Config struct {
	Mode         string
	ReportCaller bool
	JSONFormat   bool
	Output       io.Writer
}

func (c *Config) verbose() bool {
	return c.Mode == "debug" || c.Mode == "test"
}

func (c *Config) level() logrus.Level {
	if c.verbose() {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// formatter picks JSON only outside verbose modes, where lines are read by
// a collector rather than a person.
func (c *Config) formatter() logrus.Formatter {
	if c.JSONFormat && !c.verbose() {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
	}
	return &CustomFormatter{TimestampFormat: time.RFC3339, FullTimestamp: true}
}

func (c *Config) output() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

// InitLogger reconfigures the shared logger. Caller reporting is honoured
// in verbose modes only.
func InitLogger(cfg *Config) {
	log.SetLevel(cfg.level())
	log.SetFormatter(cfg.formatter())
	log.SetReportCaller(cfg.ReportCaller && cfg.verbose())
	log.SetOutput(cfg.output())
}

func GetLogger() *logrus.Logger { return log }

func WithFields(fields logrus.Fields) *logrus.Entry { return log.WithFields(fields) }

func WithError(err error) *logrus.Entry { return log.WithError(err) }

func Error(args ...interface{}) { log.Error(args...) }

func Warn(args ...interface{}) { log.Warn(args...) }

func Info(args ...interface{}) { log.Info(args...) }

func Debug(args ...interface{}) { log.Debug(args...) }
