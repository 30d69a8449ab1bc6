package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labwise/labwise/internal/logger"
)

//go:embed schema.sql
var schemaFS embed.FS

// Migrator handles database schema migrations
type Migrator struct {
	db  *sqlx.DB
	log logger.Logger
}

// NewMigrator creates a new database migrator
func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db, log: logger.New("migrator", "")}
}

// Migrate runs all necessary database migrations
func (m *Migrator) Migrate(ctx context.Context) error {
	m.log.Infow("Starting database migration")

	if err := m.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	applied, err := m.isMigrationApplied(ctx, "initial_schema")
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if applied {
		m.log.Infow("Initial schema already applied, skipping")
		return nil
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := m.recordMigration(ctx, tx, "initial_schema", "Applied initial database schema from schema.sql"); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.log.Infow("Database migration completed")
	return nil
}

// createMigrationTable creates the migrations tracking table
func (m *Migrator) createMigrationTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			description TEXT,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`

	_, err := m.db.ExecContext(ctx, query)
	return err
}

// isMigrationApplied checks if a migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, migrationName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM schema_migrations WHERE migration_name = $1`
	err := m.db.GetContext(ctx, &count, query, migrationName)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// recordMigration records a migration in the tracking table
func (m *Migrator) recordMigration(ctx context.Context, tx *sqlx.Tx, migrationName, description string) error {
	query := `
		INSERT INTO schema_migrations (migration_name, description, applied_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (migration_name) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, migrationName, description, time.Now())
	return err
}

// GetMigrationStatus returns the status of all applied migrations
func (m *Migrator) GetMigrationStatus(ctx context.Context) ([]MigrationRecord, error) {
	var migrations []MigrationRecord
	query := `
		SELECT migration_name, description, applied_at
		FROM schema_migrations
		ORDER BY applied_at DESC
	`
	err := m.db.SelectContext(ctx, &migrations, query)
	return migrations, err
}

// MigrationRecord represents a migration record
type MigrationRecord struct {
	MigrationName string    `db:"migration_name"`
	Description   string    `db:"description"`
	AppliedAt     time.Time `db:"applied_at"`
}
