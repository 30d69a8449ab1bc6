package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Mail          MailConfig
	Notifications NotificationsConfig
	Logging       LoggingConfig
	Metrics       MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig selects and configures the persistence backend
type DatabaseConfig struct {
	Type     string // "memory", "postgres", "mongodb"
	Postgres PostgresConfig
	MongoDB  MongoDBConfig
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// MongoDBConfig holds MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	MaxPoolSize     int
	MinPoolSize     int
	MaxConnIdleTime time.Duration
	ServerTimeout   time.Duration
}

// MailConfig holds SMTP transport configuration
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// NotificationsConfig holds sweep scheduling configuration
type NotificationsConfig struct {
	// Schedule is a cron expression; default fires daily at 08:00
	Schedule string
	// SweepTimeout bounds one full evaluator run
	SweepTimeout time.Duration
	// DispatchTimeout bounds the dispatch of one firing
	DispatchTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "text"
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/labwise")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("LABWISE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.idleTimeout", "120s")

	// Database defaults
	v.SetDefault("database.type", "memory")
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "labwise")
	v.SetDefault("database.postgres.password", "labwise")
	v.SetDefault("database.postgres.database", "labwise")
	v.SetDefault("database.postgres.sslMode", "disable")
	v.SetDefault("database.postgres.maxOpenConns", 25)
	v.SetDefault("database.postgres.maxIdleConns", 5)
	v.SetDefault("database.postgres.connMaxLifetime", "5m")
	v.SetDefault("database.postgres.connMaxIdleTime", "10m")
	v.SetDefault("database.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongodb.database", "labwise")
	v.SetDefault("database.mongodb.maxPoolSize", 100)
	v.SetDefault("database.mongodb.minPoolSize", 10)
	v.SetDefault("database.mongodb.maxConnIdleTime", "10m")
	v.SetDefault("database.mongodb.serverTimeout", "30s")

	// Mail defaults
	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.fromAddress", "noreply@labwise.dev")
	v.SetDefault("mail.fromName", "LabWise Notifier")

	// Notification sweep defaults
	v.SetDefault("notifications.schedule", "0 8 * * *")
	v.SetDefault("notifications.sweepTimeout", "10m")
	v.SetDefault("notifications.dispatchTimeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
