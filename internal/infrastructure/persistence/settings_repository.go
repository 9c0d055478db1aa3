package persistence

import (
	"context"
	"errors"

	"github.com/fueltrade/backend/internal/domain/settings"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBusinessSettingsRepository implements settings.Repository using GORM
type GormBusinessSettingsRepository struct {
	db              *gorm.DB
	defaultBusiness string
}

// NewGormBusinessSettingsRepository creates a new GormBusinessSettingsRepository.
// defaultBusiness seeds the singleton when no row exists yet.
func NewGormBusinessSettingsRepository(db *gorm.DB, defaultBusiness string) *GormBusinessSettingsRepository {
	return &GormBusinessSettingsRepository{db: db, defaultBusiness: defaultBusiness}
}

func (r *GormBusinessSettingsRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Get returns the settings singleton, seeding the default row on first access
func (r *GormBusinessSettingsRepository) Get(ctx context.Context) (*settings.BusinessSettings, error) {
	var model models.BusinessSettingsModel
	err := r.conn(ctx).Order("created_at ASC").First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seeded := settings.NewDefaultSettings(r.defaultBusiness)
	if err := r.Save(ctx, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}

// Save persists the settings singleton
func (r *GormBusinessSettingsRepository) Save(ctx context.Context, s *settings.BusinessSettings) error {
	model := models.BusinessSettingsModelFromDomain(s)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock persists the settings singleton with optimistic locking
func (r *GormBusinessSettingsRepository) SaveWithLock(ctx context.Context, s *settings.BusinessSettings) error {
	model := models.BusinessSettingsModelFromDomain(s)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", s.ID, s.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
