package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"muanapay/internal/infra"
	"muanapay/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanInfoById(ctx context.Context, planID string) (*db_models.Plan, error)
	GetActivePlanByName(ctx context.Context, name string) (*db_models.Plan, error)
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p PlanRepository) GetPlanInfoById(ctx context.Context, planID string) (*db_models.Plan, error) {

	var plan db_models.Plan
	err := infra.Conn(ctx, p.db).First(&plan, "id = ?", planID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p PlanRepository) GetActivePlanByName(ctx context.Context, name string) (*db_models.Plan, error) {

	var plan db_models.Plan
	err := infra.Conn(ctx, p.db).
		Where("name = ? AND is_active = ?", name, true).
		Order("created_at ASC").
		First(&plan).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}
