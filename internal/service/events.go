package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/metrics"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/queue"
)

// EventPublisher announces committed changes. A nil publisher or queue is a no-op.
type EventPublisher struct {
	Queue queue.Queue
	Topic string
	Log   *zap.Logger
}

func (p *EventPublisher) publish(ctx context.Context, eventType string, entityID int, customerID *int) {
	metrics.RecordChange(eventType)
	if p == nil || p.Queue == nil {
		return
	}

	ev := model.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.Queue.Publish(ctx, p.Topic, ev); err != nil && p.Log != nil {
		p.Log.Warn("failed to publish change event",
			zap.String("type", eventType),
			zap.Int("entity_id", entityID),
			zap.Error(err),
		)
	}
}
