package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/model"
)

const retryHeader = "x-retry-count"

// AMQPQueue publishes events to durable RabbitMQ queues named after the topic.
type AMQPQueue struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	mu         sync.Mutex
	declared   map[string]bool
	log        *zap.Logger
	maxRetries int
}

func DialAMQP(url string, log *zap.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{
		conn:       conn,
		ch:         ch,
		declared:   map[string]bool{},
		log:        log,
		maxRetries: 3,
	}, nil
}

// declare must be called with mu held.
func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(_ context.Context, topic string, ev model.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.declare(topic); err != nil {
		return err
	}
	return q.ch.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Body:         body,
	})
}

// Subscribe consumes the topic until the connection closes. Failed
// deliveries are republished with an incremented retry header and
// dropped after maxRetries.
func (q *AMQPQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	err := q.declare(topic)
	q.mu.Unlock()
	if err != nil {
		return err
	}

	msgs, err := q.ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			q.deliver(topic, d, handler)
		}
		q.log.Info("consumer stopped", zap.String("topic", topic))
	}()
	return nil
}

func (q *AMQPQueue) deliver(topic string, d amqp.Delivery, handler Handler) {
	var ev model.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		q.log.Warn("invalid event body", zap.Error(err))
		d.Ack(false)
		return
	}

	if err := handler(ev); err != nil {
		retries := retryCount(d.Headers)
		q.log.Warn("event handler failed",
			zap.String("event_id", ev.ID),
			zap.Int("retry", retries),
			zap.Error(err),
		)
		if retries < q.maxRetries {
			q.mu.Lock()
			pubErr := q.ch.Publish("", topic, false, false, amqp.Publishing{
				ContentType:  d.ContentType,
				DeliveryMode: amqp.Persistent,
				MessageId:    d.MessageId,
				Type:         d.Type,
				Headers:      amqp.Table{retryHeader: int32(retries + 1)},
				Body:         d.Body,
			})
			q.mu.Unlock()
			if pubErr != nil {
				d.Nack(false, true)
				return
			}
		}
	}
	d.Ack(false)
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.ch.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
