// cmd/web/main.go
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

	"github.com/unclebandit/customer-records/internal/client"
	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/handler"
	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/web"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Development: cfg.LogDev})
	defer log.Sync()

	pages, err := web.NewServer(client.New(cfg.APIBaseURL), log)
	if err != nil {
		log.Fatal("failed to load templates", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.WebAddr(),
		Handler:           handler.RequestLogger(log)(pages.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("web client running", zap.String("addr", srv.Addr), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("web client failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
