package queue

import (
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
)

// StartAuditSubscriber logs every change event published on topic.
func StartAuditSubscriber(q Queue, topic string, log *zap.Logger) error {
	return q.Subscribe(topic, func(ev model.Event) error {
		fields := []zap.Field{
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
			zap.Int("entity_id", ev.EntityID),
			zap.Time("occurred_at", ev.OccurredAt),
		}
		if ev.CustomerID != nil {
			fields = append(fields, zap.Int("customer_id", *ev.CustomerID))
		}
		log.Info("change recorded", fields...)
		return nil
	})
}
