package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"muanapay/internal/config"
	"muanapay/internal/infra"
	"muanapay/internal/migration"
	"muanapay/internal/repositories"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Provide(
		repositories.NewSmsTransactionRepository,
		repositories.NewPaymentTransactionRepository,
		repositories.NewPlanRepository,
		repositories.NewProfileRepository,
		repositories.NewSubscriptionRepository,
	),
)

func provideDB(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.PostgresURL, log)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := applyMigrations(db, log); err != nil {
			infra.ClosePostgresql(db, log)
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}

// applyMigrations reuses the pool; the migrator is left open since closing it
// would close the shared *sql.DB.
func applyMigrations(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB)
	if err != nil {
		return err
	}
	if err := migration.Up(m); err != nil {
		return err
	}
	log.Info("database migrations applied")
	return nil
}
