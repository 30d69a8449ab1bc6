package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labwise/labwise/internal/domain/ports"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresAdapter implements the DatabaseAdapter interface for PostgreSQL
type PostgresAdapter struct {
	db                  *sqlx.DB
	config              *ports.PostgresConfig
	equipmentRepo       ports.EquipmentRepository
	taskRepo            ports.TaskRepository
	settingRepo         ports.SettingRepository
	notificationLogRepo ports.NotificationLogRepository
	activityLogRepo     ports.ActivityLogRepository
}

// NewPostgresAdapter creates a new PostgreSQL database adapter
func NewPostgresAdapter(config *ports.PostgresConfig) *PostgresAdapter {
	return &PostgresAdapter{
		config: config,
	}
}

// Connect establishes a connection to the PostgreSQL database
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		a.config.Host,
		a.config.Port,
		a.config.User,
		a.config.Password,
		a.config.Database,
		a.config.SSLMode,
	)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(a.config.MaxOpenConns)
	db.SetMaxIdleConns(a.config.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(a.config.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(a.config.ConnMaxIdleTime) * time.Second)

	a.db = db

	// Initialize repositories
	a.equipmentRepo = NewEquipmentRepository(db)
	a.taskRepo = NewTaskRepository(db)
	a.settingRepo = NewSettingRepository(db)
	a.notificationLogRepo = NewNotificationLogRepository(db)
	a.activityLogRepo = NewActivityLogRepository(db)

	return nil
}

// Disconnect closes the database connection
func (a *PostgresAdapter) Disconnect(ctx context.Context) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (a *PostgresAdapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return a.db.PingContext(ctx)
}

// GetType returns the database type
func (a *PostgresAdapter) GetType() ports.DatabaseType {
	return ports.DatabaseTypePostgreSQL
}

// Migrate applies the schema to the connected database
func (a *PostgresAdapter) Migrate(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not connected")
	}
	return NewMigrator(a.db).Migrate(ctx)
}

// GetEquipmentRepository returns the equipment repository
func (a *PostgresAdapter) GetEquipmentRepository() ports.EquipmentRepository {
	return a.equipmentRepo
}

// GetTaskRepository returns the task repository
func (a *PostgresAdapter) GetTaskRepository() ports.TaskRepository {
	return a.taskRepo
}

// GetSettingRepository returns the notification setting repository
func (a *PostgresAdapter) GetSettingRepository() ports.SettingRepository {
	return a.settingRepo
}

// GetNotificationLogRepository returns the notification log repository
func (a *PostgresAdapter) GetNotificationLogRepository() ports.NotificationLogRepository {
	return a.notificationLogRepo
}

// GetActivityLogRepository returns the activity log repository
func (a *PostgresAdapter) GetActivityLogRepository() ports.ActivityLogRepository {
	return a.activityLogRepo
}
