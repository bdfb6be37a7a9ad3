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

type ProfileRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Profile, error)
	// InsertIfMissing creates the profile unless a row with the same id exists.
	InsertIfMissing(ctx context.Context, profile *db_models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

func (p *profileRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := infra.Conn(ctx, p.db).First(&profile, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (p *profileRepository) InsertIfMissing(ctx context.Context, profile *db_models.Profile) error {
	return infra.Conn(ctx, p.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(profile).Error
}
