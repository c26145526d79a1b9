// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/controller"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/handler"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/service"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Development: cfg.LogDev})
	defer log.Sync()
	if !envLoaded {
		log.Info("no .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if cfg.EnsureSchema {
		if err := db.EnsureSchema(ctx, conn); err != nil {
			log.Fatal("failed to ensure schema", zap.Error(err))
		}
	}

	q, err := newQueue(cfg, log)
	if err != nil {
		log.Fatal("failed to set up event queue", zap.Error(err))
	}
	defer q.Close()

	events := &service.EventPublisher{Queue: q, Topic: cfg.EventsQueue, Log: log}

	customerService := &service.CustomerService{
		CustomerRepo:    &repository.CustomerRepository{DB: conn},
		Events:          events,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}
	addressService := &service.AddressService{
		AddressRepo: &repository.AddressRepository{DB: conn},
		Events:      events,
	}

	deps := handler.Deps{
		Customers:  &controller.CustomerController{CustomerService: customerService, Log: log},
		Addresses:  &controller.AddressController{AddressService: addressService, Log: log},
		DB:         conn,
		Log:        log,
		CORSOrigin: cfg.CORSOrigin,
	}
	if cfg.RateLimitRPS > 0 {
		limiter := handler.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
		go sweepLimiters(ctx, limiter)
		deps.RateLimiter = limiter
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newQueue publishes to RabbitMQ when AMQP_URL is set. Otherwise events stay
// in process and the audit subscriber logs them.
func newQueue(cfg *config.Config, log *zap.Logger) (queue.Queue, error) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL, log)
		if err != nil {
			return nil, err
		}
		return q, nil
	}
	q := queue.NewInMemoryQueue(log)
	if err := queue.StartAuditSubscriber(q, cfg.EventsQueue, log); err != nil {
		return nil, err
	}
	return q, nil
}

func sweepLimiters(ctx context.Context, limiter *handler.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(10000)
		}
	}
}
