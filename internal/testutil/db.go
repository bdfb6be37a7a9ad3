// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"muanapay/internal/models/db_models"
)

// NewTestDB opens a private in-memory SQLite database with every table migrated.
// The pool is capped at one connection so transactions behave as on a single
// Postgres session.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&db_models.Profile{},
		&db_models.Plan{},
		&db_models.PaymentTransaction{},
		&db_models.SmsTransaction{},
		&db_models.UserSubscription{},
	))
	return db
}

// SeedPlan inserts a plan. Inactive plans are flipped after insert because
// is_active has a database default of true.
func SeedPlan(t *testing.T, db *gorm.DB, name string, priceCents int64, active bool) *db_models.Plan {
	t.Helper()

	plan := &db_models.Plan{
		Name:                name,
		PriceCents:          priceCents,
		Currency:            "XOF",
		IsActive:            true,
		SyncIntervalSeconds: 300,
		MaxEndpoints:        3,
	}
	require.NoError(t, db.Create(plan).Error)
	if !active {
		require.NoError(t, db.Model(plan).Update("is_active", false).Error)
		plan.IsActive = false
	}
	return plan
}
