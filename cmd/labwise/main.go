package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labwise/labwise/internal/config"
	"github.com/labwise/labwise/internal/domain/service"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/internal/scheduler"
)

func main() {
	log := logger.New("labwise-main", "info")

	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}
	logger.SetLevel(cfg.Logging.Level)

	// Connect persistence backend
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := initializeDatabase(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatalw("Failed to initialize database", "error", err)
	}

	// Seed the built-in notification rules on first run
	settingsService := service.NewSettingsService(db.GetSettingRepository())
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := settingsService.SeedDefaults(seedCtx); err != nil {
		log.Fatalw("Failed to seed notification settings", "error", err)
	}
	seedCancel()
	log.Info("✓ Notification settings ready")

	// Wire domain services
	services := initializeServices(cfg, db)
	services.Settings = settingsService
	log.Info("✓ Services initialized")

	// Metrics endpoint
	metricsServer := initializeMetricsServer(cfg, log)

	// HTTP server
	httpServer, err := initializeHTTPServer(cfg, services, log)
	if err != nil {
		log.Fatalw("Failed to start HTTP server", "error", err)
	}

	// Sweep scheduler
	sched := scheduler.New(cfg.Notifications.Schedule, services.Notification)
	if err := sched.Start(); err != nil {
		log.Fatalw("Failed to start sweep scheduler", "error", err)
	}

	app := &Application{
		cfg:           cfg,
		logger:        log,
		db:            db,
		httpServer:    httpServer,
		scheduler:     sched,
		metricsServer: metricsServer,
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.shutdown()
}
