package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	GetSchoolYear(ctx context.Context) (*models.SchoolYear, error)
	PutSchoolYear(ctx context.Context, year *models.SchoolYear) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSchoolYear(ctx context.Context) (*models.SchoolYear, error) {
	var year models.SchoolYear
	if err := r.db.WithContext(ctx).First(&year, "id = ?", models.SchoolYearID).Error; err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *settingsRepository) PutSchoolYear(ctx context.Context, year *models.SchoolYear) error {
	year.ID = models.SchoolYearID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_date", "end_date", "updated_at"}),
	}).Create(year).Error
}
