package repository

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByAccountType(ctx context.Context, accountType models.Role) ([]models.User, error)
	// FindStudentsOfParent resolves a parent's linked students via the
	// student's parent_email back-reference.
	FindStudentsOfParent(ctx context.Context, parentEmail string) ([]models.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByAccountType(ctx context.Context, accountType models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("account_type = ?", accountType).
		Order("first_name ASC, last_name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) FindStudentsOfParent(ctx context.Context, parentEmail string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("account_type = ? AND parent_email = ?", models.RoleStudent, parentEmail).
		Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}
