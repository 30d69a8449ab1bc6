package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labwise/labwise/internal/adapters/factory"
	httpAdapter "github.com/labwise/labwise/internal/adapters/http"
	"github.com/labwise/labwise/internal/adapters/smtp"
	"github.com/labwise/labwise/internal/config"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/domain/service"
	"github.com/labwise/labwise/internal/logger"
	"github.com/labwise/labwise/internal/scheduler"
)

// Application holds the application state
type Application struct {
	cfg           *config.Config
	logger        logger.Logger
	db            ports.DatabaseAdapter
	httpServer    *httpAdapter.Server
	scheduler     *scheduler.Scheduler
	metricsServer *http.Server
}

// initializeDatabase builds and connects the configured persistence backend
func initializeDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (ports.DatabaseAdapter, error) {
	dbConfig := &ports.DatabaseConfig{
		Type: ports.DatabaseType(cfg.Database.Type),
	}

	switch dbConfig.Type {
	case ports.DatabaseTypePostgreSQL:
		dbConfig.PostgresConfig = &ports.PostgresConfig{
			Host:            cfg.Database.Postgres.Host,
			Port:            cfg.Database.Postgres.Port,
			User:            cfg.Database.Postgres.User,
			Password:        cfg.Database.Postgres.Password,
			Database:        cfg.Database.Postgres.Database,
			SSLMode:         cfg.Database.Postgres.SSLMode,
			MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
			ConnMaxLifetime: int(cfg.Database.Postgres.ConnMaxLifetime.Seconds()),
			ConnMaxIdleTime: int(cfg.Database.Postgres.ConnMaxIdleTime.Seconds()),
		}
	case ports.DatabaseTypeMongoDB:
		dbConfig.MongoDBConfig = &ports.MongoDBConfig{
			URI:             cfg.Database.MongoDB.URI,
			Database:        cfg.Database.MongoDB.Database,
			MaxPoolSize:     cfg.Database.MongoDB.MaxPoolSize,
			MinPoolSize:     cfg.Database.MongoDB.MinPoolSize,
			MaxConnIdleTime: int(cfg.Database.MongoDB.MaxConnIdleTime.Seconds()),
			ServerTimeout:   int(cfg.Database.MongoDB.ServerTimeout.Seconds()),
		}
	}

	f := factory.NewDatabaseAdapterFactory()
	if err := f.ValidateConfig(dbConfig); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	adapter, err := f.CreateAndConnectAdapter(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	log.Infow("✓ Database connected", "type", adapter.GetType())
	return adapter, nil
}

// initializeServices wires the domain services onto the persistence adapter
func initializeServices(cfg *config.Config, db ports.DatabaseAdapter) httpAdapter.Services {
	mailer := smtp.NewMailer(smtp.Config{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
	})

	dispatcher := service.NewDispatcher(mailer, db.GetNotificationLogRepository())

	return httpAdapter.Services{
		Equipment: service.NewEquipmentService(
			db.GetEquipmentRepository(),
			db.GetTaskRepository(),
			db.GetActivityLogRepository(),
		),
		Maintenance: service.NewMaintenanceService(
			db.GetTaskRepository(),
			db.GetEquipmentRepository(),
			db.GetSettingRepository(),
			db.GetActivityLogRepository(),
			dispatcher,
		),
		Settings: service.NewSettingsService(db.GetSettingRepository()),
		Notification: service.NewNotificationService(
			db.GetEquipmentRepository(),
			db.GetTaskRepository(),
			db.GetSettingRepository(),
			db.GetNotificationLogRepository(),
			db.GetActivityLogRepository(),
			dispatcher,
			service.NotificationServiceConfig{
				SweepTimeout:    cfg.Notifications.SweepTimeout,
				DispatchTimeout: cfg.Notifications.DispatchTimeout,
			},
		),
		ActivityLog: db.GetActivityLogRepository(),
	}
}

// initializeHTTPServer configures and starts the HTTP server
func initializeHTTPServer(cfg *config.Config, services httpAdapter.Services, log logger.Logger) (*httpAdapter.Server, error) {
	httpServerConfig := httpAdapter.ServerConfig{
		ListenAddr:   fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		EnableH2C:    true,
	}

	httpServer := httpAdapter.NewServer(httpServerConfig, services)

	if err := httpServer.Start(); err != nil {
		return nil, err
	}

	log.Infow("✓ HTTP server listening", "address", httpServer.GetAddr())
	return httpServer, nil
}

// initializeMetricsServer starts the Prometheus endpoint when enabled
func initializeMetricsServer(cfg *config.Config, log logger.Logger) *http.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	logger.InitMetrics()

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, logger.MetricsHandler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("Metrics server error", "error", err)
		}
	}()

	log.Infow("✓ Metrics server listening", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
	return server
}

// shutdown performs graceful shutdown of all services
func (app *Application) shutdown() {
	app.logger.Info("Shutting down...")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if err := app.httpServer.Stop(); err != nil {
		app.logger.Errorw("HTTP server shutdown error", "error", err)
	}

	if app.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			app.logger.Errorw("Metrics server shutdown error", "error", err)
		}
		cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.db.Disconnect(ctx); err != nil {
		app.logger.Errorw("Database disconnect error", "error", err)
	}

	app.logger.Info("Stopped gracefully")
}
