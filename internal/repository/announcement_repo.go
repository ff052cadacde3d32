package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	FindAll(ctx context.Context) ([]models.Announcement, error)
	FindPublished(ctx context.Context) ([]models.Announcement, error)
	UpdateStatus(ctx context.Context, id string, status models.AnnouncementStatus) error
	Delete(ctx context.Context, id string) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepository) FindAll(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *announcementRepository) FindPublished(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := r.db.WithContext(ctx).
		Where("status = ?", models.AnnouncementPublished).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *announcementRepository) UpdateStatus(ctx context.Context, id string, status models.AnnouncementStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Announcement{}, "id = ?", id).Error
}
