package service

import (
	"github.com/sirupsen/logrus"

	"github.com/webrexstudio/review-engagement/pkg/metrics"
)

// LogEventLogger implements EventLogger on top of structured logging and
// Prometheus counters. Log never blocks and never returns an error.
type LogEventLogger struct{}

// NewLogEventLogger creates the default telemetry sink.
func NewLogEventLogger() *LogEventLogger {
	return &LogEventLogger{}
}

// Log emits the event as a structured log line and bumps the event counter.
func (l *LogEventLogger) Log(event string, fields map[string]interface{}) {
	metrics.TelemetryEventsTotal.WithLabelValues(event).Inc()
	logrus.WithFields(logrus.Fields(fields)).Info(event)
}

// NopEventLogger discards all events. Useful in tests.
type NopEventLogger struct{}

func (NopEventLogger) Log(event string, fields map[string]interface{}) {}
