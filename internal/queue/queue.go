package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
)

// Handler consumes one event. Returning an error asks for a retry.
type Handler func(ev model.Event) error

// Queue interface
type Queue interface {
	Publish(ctx context.Context, topic string, ev model.Event) error
	Subscribe(topic string, handler Handler) error
	Close() error
}

// InMemoryQueue delivers events to in-process subscribers with retry
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	log        *zap.Logger
	maxRetries int
	backoff    time.Duration
	wg         sync.WaitGroup
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(log *zap.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		log:        log,
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
	}
}

// WithBackoff overrides the base delay between retries.
func (q *InMemoryQueue) WithBackoff(d time.Duration) *InMemoryQueue {
	q.backoff = d
	return q
}

// Publish sends an event to all subscribers of the topic
func (q *InMemoryQueue) Publish(_ context.Context, topic string, ev model.Event) error {
	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.process(handler, ev)
	}
	return nil
}

// process handles retries with a linearly growing delay
func (q *InMemoryQueue) process(handler Handler, ev model.Event) {
	defer q.wg.Done()
	for attempt := 0; attempt <= q.maxRetries; attempt++ {
		err := handler(ev)
		if err == nil {
			return
		}
		q.log.Warn("event handler failed",
			zap.String("event_id", ev.ID),
			zap.String("type", ev.Type),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if attempt < q.maxRetries {
			time.Sleep(time.Duration(attempt+1) * q.backoff)
		}
	}
	q.log.Error("event permanently failed", zap.String("event_id", ev.ID), zap.String("type", ev.Type))
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight deliveries.
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}
