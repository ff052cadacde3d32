package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// User is an account of any role. ParentEmail links a student to a parent
// account and is set for students only. CanBook and CanCancel are advisory
// flags, not a security boundary.
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AccountType  Role      `gorm:"type:varchar(10);not null" json:"account_type"`
	ParentEmail  string    `json:"parent_email,omitempty"`
	CanBook      bool      `gorm:"default:true" json:"can_book"`
	CanCancel    bool      `gorm:"default:true" json:"can_cancel"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
