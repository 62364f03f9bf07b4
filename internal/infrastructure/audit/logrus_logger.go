package audit

import (
	"context"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
)

// LogrusAuditLogger implements domain.AuditLogger by writing structured log entries
type LogrusAuditLogger struct {
	log logrus.FieldLogger
}

// NewLogrusAuditLogger creates an audit logger on top of log
func NewLogrusAuditLogger(log logrus.FieldLogger) domain.AuditLogger {
	return &LogrusAuditLogger{log: log.WithField("component", "audit")}
}

// LogEvent implements domain.AuditLogger
func (l *LogrusAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return nil
	}
	fields := logrus.Fields{
		"event_type": string(event.EventType),
		"user_id":    event.UserID,
		"success":    event.Success,
		"timestamp":  event.Timestamp,
	}
	if event.Email != "" {
		fields["email"] = event.Email
	}
	for k, v := range event.Metadata {
		fields["meta."+k] = v
	}

	entry := l.log.WithFields(fields)
	if !event.Success {
		entry.WithField("error", event.ErrorMsg).Warn("audit event")
		return nil
	}
	entry.Info("audit event")
	return nil
}
