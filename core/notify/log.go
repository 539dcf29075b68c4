package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes messages to the application log. It is the fallback
// channel when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs through the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send implements Notifier.
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	fields := []zap.Field{
		zap.String("alert_id", msg.ID),
		zap.String("kind", string(msg.Kind)),
		zap.String("severity", string(msg.Severity)),
		zap.String("body", msg.Body),
	}
	if msg.ReportID != "" {
		fields = append(fields, zap.String("report_id", msg.ReportID))
	}

	switch msg.Severity {
	case SeverityCritical:
		n.logger.Error(msg.Title, fields...)
	case SeverityWarning:
		n.logger.Warn(msg.Title, fields...)
	default:
		n.logger.Info(msg.Title, fields...)
	}
	return nil
}
