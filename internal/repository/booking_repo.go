package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	CreateBatch(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	// FindByIDForUpdate locks the row inside the given transaction,
	// serializing concurrent consumption of a makeup credit.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error)
	FindByTutor(ctx context.Context, tutorID string) ([]models.Booking, error)
	// FindByTutorForUpdate locks the tutor's booking rows inside the given
	// transaction, serializing concurrent slot claims.
	FindByTutorForUpdate(ctx context.Context, tx *gorm.DB, tutorID string) ([]models.Booking, error)
	FindByStudentIDs(ctx context.Context, studentIDs []string) ([]models.Booking, error)
	FindByCreator(ctx context.Context, creatorID string) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	FindByStatuses(ctx context.Context, statuses []models.BookingStatus) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.BookingStatus) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) CreateBatch(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error {
	return tx.WithContext(ctx).Create(&bookings).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByTutor(ctx context.Context, tutorID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("full_date ASC, time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByTutorForUpdate(ctx context.Context, tx *gorm.DB, tutorID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("tutor_id = ?", tutorID).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByStudentIDs(ctx context.Context, studentIDs []string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("student_id IN ?", studentIDs).
		Order("full_date ASC, time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByCreator(ctx context.Context, creatorID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("created_by_id = ?", creatorID).
		Order("full_date ASC, time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Order("full_date ASC, time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByStatuses(ctx context.Context, statuses []models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.BookingStatus) error {
	return tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *bookingRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id).Error
}
