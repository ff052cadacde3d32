package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Settlement is a student's monthly billing line: hours planned, completed,
// paid and the resulting balance. One row per (student, month).
type Settlement struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID        string    `gorm:"type:uuid;not null;uniqueIndex:idx_settlement_month" json:"student_id"`
	Month            string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_settlement_month" json:"month"` // YYYY-MM
	PlannedHours     float64   `json:"planned_hours"`
	CompletedHours   float64   `json:"completed_hours"`
	TotalHoursToPay  float64   `json:"total_hours_to_pay"`
	PaidHours        float64   `json:"paid_hours"`
	Balance          float64   `json:"balance"`
	CarriedOverHours float64   `json:"carried_over_hours"`
	PaymentDate      string    `gorm:"type:varchar(10)" json:"payment_date,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedByID      string    `gorm:"type:uuid" json:"created_by_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s *Settlement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
