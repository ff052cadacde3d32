package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusScheduled        BookingStatus = "scheduled"
	StatusCompleted        BookingStatus = "completed"
	StatusCancelledInTime  BookingStatus = "cancelled_in_time"
	StatusCancelledLate    BookingStatus = "cancelled_late"
	StatusCancelledByTutor BookingStatus = "cancelled_by_tutor"
	StatusMakeup           BookingStatus = "makeup"
	StatusMakeupUsed       BookingStatus = "makeup_used"
)

// Released reports whether the status no longer occupies the tutor's calendar.
func (s BookingStatus) Released() bool {
	switch s {
	case StatusCancelledInTime, StatusCancelledLate, StatusCancelledByTutor, StatusMakeupUsed:
		return true
	}
	return false
}

// Active reports whether the booking still occupies its slot and may yet
// run: the statuses covered by the active-slot unique index.
func (s BookingStatus) Active() bool {
	return s == StatusScheduled || s == StatusMakeup
}

// Terminal reports whether no further automatic transition applies.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelledLate, StatusMakeupUsed:
		return true
	}
	return false
}

// MakeupEligible reports whether a cancelled lesson may still be made up.
func (s BookingStatus) MakeupEligible() bool {
	return s == StatusCancelledInTime || s == StatusCancelledByTutor
}

// CancellationStatus picks the status a cancellation lands in: tutors may
// cancel at any time, everyone else pays the late penalty under 24 hours.
func CancellationStatus(actor Role, lead time.Duration) BookingStatus {
	if actor == RoleTutor {
		return StatusCancelledByTutor
	}
	if lead < 24*time.Hour {
		return StatusCancelledLate
	}
	return StatusCancelledInTime
}

type Booking struct {
	ID               string        `gorm:"type:uuid;primaryKey" json:"id"`
	TutorID          string        `gorm:"type:uuid;not null;index" json:"tutor_id"`
	TutorName        string        `json:"tutor_name"`
	StudentID        string        `gorm:"type:uuid;not null;index" json:"student_id"`
	StudentName      string        `json:"student_name"`
	Subject          string        `json:"subject"`
	FullDate         string        `gorm:"type:varchar(10);not null" json:"full_date"` // YYYY-MM-DD
	Time             string        `gorm:"type:varchar(5);not null" json:"time"`       // HH:MM
	Duration         int           `gorm:"not null" json:"duration"`                   // minutes
	LessonMode       LessonMode    `gorm:"type:varchar(20)" json:"lesson_mode"`
	IsRecurring      bool          `json:"is_recurring"`
	Day              string        `json:"day,omitempty"` // weekday name, recurring only
	BufferBefore     int           `gorm:"not null;default:0" json:"buffer_before"`
	BufferAfter      int           `gorm:"not null;default:0" json:"buffer_after"`
	Status           BookingStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	OriginalLessonID *string       `gorm:"type:uuid" json:"original_lesson_id,omitempty"`
	CreatedByID      string        `gorm:"type:uuid" json:"created_by_id"`
	CreatedByRole    Role          `gorm:"type:varchar(10)" json:"created_by_role"`
	CancelledByRole  Role          `gorm:"type:varchar(10)" json:"cancelled_by_role,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// StartsAt combines FullDate and Time into an instant in the given location.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.FullDate+" "+b.Time, loc)
}
