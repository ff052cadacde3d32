package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementStatus string

const (
	AnnouncementDraft     AnnouncementStatus = "draft"
	AnnouncementPublished AnnouncementStatus = "published"
)

type Announcement struct {
	ID          string             `gorm:"type:uuid;primaryKey" json:"id"`
	Text        string             `gorm:"not null" json:"text"`
	Status      AnnouncementStatus `gorm:"type:varchar(10);not null;default:'draft'" json:"status"`
	CreatedByID string             `gorm:"type:uuid" json:"created_by_id"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Review struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID   string    `gorm:"type:uuid;not null" json:"author_id"`
	AuthorName string    `json:"author_name"`
	TutorID    string    `gorm:"type:uuid;index" json:"tutor_id,omitempty"`
	Rating     int       `gorm:"not null" json:"rating"` // 1..5
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
