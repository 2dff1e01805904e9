package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/logging"
)

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name       VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ DEFAULT NOW()
)`

func main() {
	list := flag.Bool("list", false, "print embedded migrations and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	migrations, err := database.Migrations()
	if err != nil {
		logger.Fatal("Failed to read migrations", zap.Error(err))
	}

	if *list {
		for _, m := range migrations {
			fmt.Println(m.Name)
		}
		return
	}

	if cfg.Database.Driver == "sqlite" {
		// the SQL files target PostgreSQL; SQLite schemas come from the models
		db, err := database.Open(cfg.Database.Driver, cfg.GetDSN())
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to migrate", zap.Error(err))
		}
		return
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	if _, err := db.Exec(createVersionsTable); err != nil {
		logger.Fatal("Failed to create schema_migrations", zap.Error(err))
	}

	applied := 0
	for _, m := range migrations {
		done, err := isApplied(db, m.Name)
		if err != nil {
			logger.Fatal("Failed to check migration", zap.String("migration", m.Name), zap.Error(err))
		}
		if done {
			continue
		}

		logger.Info("Applying migration", zap.String("migration", m.Name))
		if err := apply(db, m); err != nil {
			logger.Fatal("Failed to apply migration", zap.String("migration", m.Name), zap.Error(err))
		}
		applied++
	}

	logger.Info("Migrations complete", zap.Int("applied", applied), zap.Int("total", len(migrations)))
}

func isApplied(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func apply(db *sql.DB, m database.Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("exec %s: %w", m.Name, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
		return err
	}
	return tx.Commit()
}
