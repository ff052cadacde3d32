package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Message     string    `gorm:"not null" json:"message"`
	Read        bool      `gorm:"default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
