package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindAll(ctx context.Context) ([]models.Review, error)
	FindByTutor(ctx context.Context, tutorID string) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]models.Review, error) {
	var out []models.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *reviewRepository) FindByTutor(ctx context.Context, tutorID string) ([]models.Review, error) {
	var out []models.Review
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
