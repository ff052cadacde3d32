package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, a *models.Availability) error
	FindByID(ctx context.Context, id string) (*models.Availability, error)
	FindByTutor(ctx context.Context, tutorID string) ([]models.Availability, error)
	Update(ctx context.Context, a *models.Availability) error
	Delete(ctx context.Context, id string) error
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, a *models.Availability) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *availabilityRepository) FindByID(ctx context.Context, id string) (*models.Availability, error) {
	var a models.Availability
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *availabilityRepository) FindByTutor(ctx context.Context, tutorID string) ([]models.Availability, error) {
	var out []models.Availability
	err := r.db.WithContext(ctx).Where("tutor_id = ?", tutorID).Find(&out).Error
	return out, err
}

func (r *availabilityRepository) Update(ctx context.Context, a *models.Availability) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *availabilityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Availability{}, "id = ?", id).Error
}
