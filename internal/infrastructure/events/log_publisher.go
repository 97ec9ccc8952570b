package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
)

// LogPublisher writes account events to the logger. Used when no Redis is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) domain.EventPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event *domain.AccountEvent) error {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("user_id", event.UserID.String()),
		zap.String("username", event.Username),
		zap.Bool("success", event.Success),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}
	for k, v := range event.Metadata {
		fields = append(fields, zap.String(k, v))
	}
	p.logger.Info("account event", fields...)
	return nil
}
