package database

import (
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vibecut/autoeditor/pkg/config"
)

// Plan rows carry large JSONB payloads, so connections are kept warm but
// recycled hourly to avoid stale pool members behind a load balancer.
const connMaxLifetime = time.Hour

// NewPostgresDB opens the GORM connection used by the video, plan and
// plan-job repositories.
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	// Query logging is verbose outside production; the worker's claim
	// query fires every poll tick and would flood production logs.
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Environment == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	log.Println("✅ Postgres connection established")

	return db, nil
}

// AutoMigrate applies the SQL migrations under migrations/ (videos, plans,
// plan_jobs). Gated by DB_AUTO_MIGRATE so production schemas only change
// deliberately.
func AutoMigrate(db *gorm.DB) error {
	log.Println("🔄 Applying pending schema migrations...")

	migrations := &migrate.FileMigrationSource{
		Dir: "migrations",
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying sql.DB for migrate: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	log.Printf("✅ Schema up to date, %d migrations applied\n", n)
	return nil
}

// CloseDB drains and closes the connection pool during shutdown
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close postgres pool: %w", err)
	}

	log.Println("✅ Postgres connection closed")
	return nil
}
