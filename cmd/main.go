package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/internal/handler"
	"undangan/rsvphub/internal/model"
	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/crypto"
	jwtpkg "undangan/rsvphub/pkg/jwt"
)

func main() {
	// 1. Load .env files (optional) and configuration
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Connect to the attendance database
	db, err := config.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	repo := repository.NewAttendanceRepository(db)

	// 5. One-time token backfill for rows created before tokens existed
	if cfg.Database.BackfillTokens {
		if _, err := service.BackfillInviteTokens(context.Background(), repo, logger); err != nil {
			logger.Fatal("failed to backfill invite tokens", zap.Error(err))
		}
	}

	// 6. Initialize state store (Redis or in-memory)
	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		stateStore = repository.NewRedisStateStore(redisClient, cfg.State.KeyPrefix)
		logger.Info("using Redis state store")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 7. Admin session signing
	pinHash, err := crypto.HashPIN(cfg.Admin.PIN)
	if err != nil {
		logger.Fatal("failed to hash admin PIN", zap.Error(err))
	}
	jwtManager := jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.Admin.SessionTTL)

	// 8. WhatsApp gateway
	if cfg.WA.APIURL == "" {
		logger.Warn("WA_API_URL not set; confirmations will not be delivered")
	}
	sender := service.WithInstrumentation(service.NewWAGatewaySender(cfg.WA), logger)

	// 9. Initialize services
	invitations := service.NewInvitations(cfg.Event, cfg.Invite)
	counter := service.NewCounterCache(repo, stateStore, cfg.State.CounterTTL, logger)
	rsvpService := service.NewRSVPService(repo, sender, invitations, counter, logger)
	checkInService := service.NewCheckInService(repo, cfg.Checkin.HadirOnly, logger)
	attendanceService := service.NewAttendanceService(repo, sender, invitations, counter, logger)
	adminService := service.NewAdminService(pinHash, jwtManager, stateStore, logger)

	// 10. Setup router
	router := handler.SetupRouter(cfg, logger, adminService, handler.Handlers{
		RSVP:       handler.NewRSVPHandler(rsvpService),
		Token:      handler.NewTokenHandler(checkInService, invitations),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Event:      handler.NewEventHandler(cfg.Event),
		Admin:      handler.NewAdminHandler(adminService),
	})

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("event", cfg.Event.Nama))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited gracefully")
}
