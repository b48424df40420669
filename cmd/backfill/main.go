// Command backfill assigns invitation tokens to attendance rows that predate them.
// Run it once after deploying over an old database.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/internal/model"
	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	n, err := service.BackfillInviteTokens(context.Background(), repository.NewAttendanceRepository(db), logger)
	if err != nil {
		logger.Fatal("backfill failed", zap.Int("updated", n), zap.Error(err))
	}
	logger.Info("backfill finished", zap.Int("updated", n))
}
