package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonMode string

const (
	ModeOnline     LessonMode = "online"
	ModeTutorPlace LessonMode = "tutor_place"
	ModeTravel     LessonMode = "travel"
)

func (m LessonMode) Valid() bool {
	switch m {
	case ModeOnline, ModeTutorPlace, ModeTravel:
		return true
	}
	return false
}

type AvailabilityType string

const (
	AvailabilityOneTime AvailabilityType = "one-time"
	AvailabilityWeekly  AvailabilityType = "weekly"
)

// Availability is a tutor's declared bookable window: either a single calendar
// date (Date, "2006-01-02") or a weekly recurring weekday (Day). Start and end
// times are "15:04" clock strings.
type Availability struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	TutorID     string           `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Type        AvailabilityType `gorm:"type:varchar(10);not null" json:"type"`
	Date        string           `gorm:"type:varchar(10)" json:"date,omitempty"`
	Day         string           `json:"day,omitempty"`
	StartTime   string           `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string           `gorm:"type:varchar(5);not null" json:"end_time"`
	LessonModes ModeList         `gorm:"type:text" json:"lesson_modes"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (a *Availability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Vacation is a tutor's blackout interval; bookings overlapping it are rejected.
type Vacation struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	TutorID       string    `gorm:"type:uuid;not null;index" json:"tutor_id"`
	StartDateTime time.Time `gorm:"not null" json:"start_date_time"`
	EndDateTime   time.Time `gorm:"not null" json:"end_date_time"`
	CreatedAt     time.Time `json:"created_at"`
}

func (v *Vacation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
