package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"muanapay/internal/infra"
	"muanapay/internal/models/db_models"
)

type SubscriptionRepository interface {
	// Upsert writes the user's single subscription row and returns it with Plan loaded.
	Upsert(ctx context.Context, sub *db_models.UserSubscription) (*db_models.UserSubscription, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*db_models.UserSubscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *db_models.UserSubscription) (*db_models.UserSubscription, error) {
	err := infra.Conn(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"plan_id",
				"status",
				"starts_at",
				"expires_at",
				"auto_renew",
				"updated_at",
				"deleted_at",
			}),
		}).
		Create(sub).Error
	if err != nil {
		return nil, err
	}

	stored, err := r.FindByUser(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("subscription missing after upsert")
	}
	return stored, nil
}

func (r *subscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*db_models.UserSubscription, error) {
	var stored db_models.UserSubscription
	err := infra.Conn(ctx, r.db).
		Preload("Plan").
		Where("user_id = ?", userID).
		First(&stored).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &stored, nil
}
