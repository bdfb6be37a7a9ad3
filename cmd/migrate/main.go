package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"muanapay/internal/config"
	"muanapay/internal/infra"
	"muanapay/internal/migration"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := infra.NewLogger(cfg.LogLevel, "console", cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(os.Args[1:], cfg, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

func run(args []string, cfg config.Config, log *zap.Logger) error {
	if cfg.PostgresURL == "" {
		return errors.New("POSTGRES_URL is not set")
	}

	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	m, err := migration.New(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Warn("closing migrator", zap.NamedError("source", sourceErr), zap.NamedError("database", dbErr))
		}
	}()

	switch args[0] {
	case "up":
		if err := migration.Up(m); err != nil {
			return err
		}
		log.Info("migrations applied")

	case "down":
		if err := m.Steps(-1); err != nil {
			return fmt.Errorf("roll back last migration: %w", err)
		}
		log.Info("last migration rolled back")

	case "goto":
		if len(args) < 2 {
			return errors.New("goto needs a version number")
		}
		version, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Migrate(uint(version)); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrate to version %d: %w", version, err)
		}
		log.Info("migrated", zap.Uint64("version", version))

	case "status":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("no migrations applied yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		log.Info("migration status", zap.Uint("version", version), zap.Bool("dirty", dirty))

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func printUsage() {
	fmt.Println("Usage: migrate <command>")
	fmt.Println("Commands:")
	fmt.Println("  up            apply all pending migrations")
	fmt.Println("  down          roll back the last migration")
	fmt.Println("  goto VERSION  migrate to a specific version")
	fmt.Println("  status        print the current version")
}
