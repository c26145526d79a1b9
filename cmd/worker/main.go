// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/queue"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Development: cfg.LogDev})
	defer log.Sync()

	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	q, err := queue.DialAMQP(cfg.AMQPURL, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, q, cfg.EventsQueue, log); err != nil {
		log.Fatal("worker failed", zap.Error(err))
	}
}

// run consumes change events from topic until ctx is cancelled, then closes q.
func run(ctx context.Context, q queue.Queue, topic string, log *zap.Logger) error {
	if err := queue.StartAuditSubscriber(q, topic, log); err != nil {
		q.Close()
		return err
	}
	log.Info("worker running, waiting for events", zap.String("queue", topic))

	<-ctx.Done()
	log.Info("worker stopping")
	return q.Close()
}
