package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettlementRepository interface {
	// Upsert inserts or replaces the settlement for the (student, month) pair.
	Upsert(ctx context.Context, s *models.Settlement) error
	FindByID(ctx context.Context, id string) (*models.Settlement, error)
	FindByStudents(ctx context.Context, studentIDs []string) ([]models.Settlement, error)
	FindAll(ctx context.Context) ([]models.Settlement, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

type settlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) Upsert(ctx context.Context, s *models.Settlement) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"planned_hours", "completed_hours", "total_hours_to_pay", "paid_hours",
			"balance", "carried_over_hours", "payment_date", "notes", "updated_at",
		}),
	}).Create(s).Error
}

func (r *settlementRepository) FindByID(ctx context.Context, id string) (*models.Settlement, error) {
	var s models.Settlement
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settlementRepository) FindByStudents(ctx context.Context, studentIDs []string) ([]models.Settlement, error) {
	var out []models.Settlement
	err := r.db.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Order("month DESC").
		Find(&out).Error
	return out, err
}

func (r *settlementRepository) FindAll(ctx context.Context) ([]models.Settlement, error) {
	var out []models.Settlement
	err := r.db.WithContext(ctx).Order("month DESC").Find(&out).Error
	return out, err
}

func (r *settlementRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Settlement{}).
		Where("id = ?", id).
		Updates(fields).Error
}
