package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
)

type VacationRepository interface {
	Create(ctx context.Context, v *models.Vacation) error
	FindByID(ctx context.Context, id string) (*models.Vacation, error)
	FindByTutor(ctx context.Context, tutorID string) ([]models.Vacation, error)
	Delete(ctx context.Context, id string) error
}

type vacationRepository struct {
	db *gorm.DB
}

func NewVacationRepository(db *gorm.DB) VacationRepository {
	return &vacationRepository{db: db}
}

func (r *vacationRepository) Create(ctx context.Context, v *models.Vacation) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vacationRepository) FindByID(ctx context.Context, id string) (*models.Vacation, error) {
	var v models.Vacation
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vacationRepository) FindByTutor(ctx context.Context, tutorID string) ([]models.Vacation, error) {
	var out []models.Vacation
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("start_date_time ASC").
		Find(&out).Error
	return out, err
}

func (r *vacationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Vacation{}, "id = ?", id).Error
}
