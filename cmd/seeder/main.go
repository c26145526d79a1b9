// cmd/seeder/main.go
package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/logger"
)

var seedFiles = []string{
	"customers.sql",
	"addresses.sql",
}

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Development: cfg.LogDev})
	defer log.Sync()

	dir := "seed"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatal("failed to ensure schema", zap.Error(err))
	}

	for _, name := range seedFiles {
		file := filepath.Join(dir, name)
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal("failed to read seed file", zap.String("file", file), zap.Error(err))
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			log.Fatal("failed to execute seed file", zap.String("file", file), zap.Error(err))
		}
		log.Info("seeded", zap.String("file", file))
	}

	log.Info("database seeding completed")
}
