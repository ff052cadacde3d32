package dto

import (
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
)

type BookingResponse struct {
	ID               string               `json:"id"`
	TutorID          string               `json:"tutor_id"`
	TutorName        string               `json:"tutor_name"`
	StudentID        string               `json:"student_id"`
	StudentName      string               `json:"student_name"`
	Subject          string               `json:"subject"`
	FullDate         string               `json:"full_date"`
	Time             string               `json:"time"`
	Duration         int                  `json:"duration"`
	LessonMode       models.LessonMode    `json:"lesson_mode"`
	IsRecurring      bool                 `json:"is_recurring"`
	Day              string               `json:"day,omitempty"`
	Status           models.BookingStatus `json:"status"`
	OriginalLessonID *string              `json:"original_lesson_id,omitempty"`
	CancelledByRole  models.Role          `json:"cancelled_by_role,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		TutorID:          b.TutorID,
		TutorName:        b.TutorName,
		StudentID:        b.StudentID,
		StudentName:      b.StudentName,
		Subject:          b.Subject,
		FullDate:         b.FullDate,
		Time:             b.Time,
		Duration:         b.Duration,
		LessonMode:       b.LessonMode,
		IsRecurring:      b.IsRecurring,
		Day:              b.Day,
		Status:           b.Status,
		OriginalLessonID: b.OriginalLessonID,
		CancelledByRole:  b.CancelledByRole,
		CreatedAt:        b.CreatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = ToBookingResponse(&bookings[i])
	}
	return out
}
