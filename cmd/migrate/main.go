package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labwise/labwise/internal/adapters/postgres"
	_ "github.com/lib/pq"
)

func main() {
	var (
		databaseURL = flag.String("database-url", "", "PostgreSQL connection string (overrides individual flags)")
		host        = flag.String("host", "localhost", "Database host")
		port        = flag.Int("port", 5432, "Database port")
		user        = flag.String("user", "labwise", "Database user")
		password    = flag.String("password", "labwise", "Database password")
		dbname      = flag.String("dbname", "labwise", "Database name")
		sslmode     = flag.String("sslmode", "disable", "SSL mode (disable, require, verify-ca, verify-full)")
		status      = flag.Bool("status", false, "Show migration status")
	)

	flag.Parse()

	// Build connection string
	var dsn string
	if *databaseURL != "" {
		dsn = *databaseURL
	} else {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			*host, *port, *user, *password, *dbname, *sslmode,
		)
	}

	fmt.Println("Connecting to database...")
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Successfully connected to database!")

	migrator := postgres.NewMigrator(db)

	if *status {
		if err := showMigrationStatus(ctx, migrator); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get migration status: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := migrator.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}
}

func showMigrationStatus(ctx context.Context, migrator *postgres.Migrator) error {
	migrations, err := migrator.GetMigrationStatus(ctx)
	if err != nil {
		return err
	}

	if len(migrations) == 0 {
		fmt.Println("No migrations applied yet.")
		return nil
	}

	fmt.Println("Applied migrations:")
	for _, m := range migrations {
		fmt.Printf("  %s  %s  (%s)\n", m.AppliedAt.Format(time.RFC3339), m.MigrationName, m.Description)
	}
	return nil
}
