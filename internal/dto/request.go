package dto

import "time"

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	AccountType string `json:"account_type" validate:"required,oneof=student parent tutor admin"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateBookingRequest books either a one-off lesson (full_date) or a weekly
// recurring one (is_recurring + day).
type CreateBookingRequest struct {
	TutorID           string `json:"tutor_id" validate:"required,uuid"`
	StudentID         string `json:"student_id" validate:"required,uuid"`
	Subject           string `json:"subject"`
	IsRecurring       bool   `json:"is_recurring"`
	FullDate          string `json:"full_date" validate:"omitempty,datetime=2006-01-02"`
	Day               string `json:"day" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	Time              string `json:"time" validate:"required,datetime=15:04"`
	Duration          int    `json:"duration" validate:"gte=0,lte=480"`
	LessonMode        string `json:"lesson_mode" validate:"omitempty,oneof=online tutor_place travel"`
	BufferBefore      int    `json:"buffer_before" validate:"gte=0,lte=120"`
	BufferAfter       int    `json:"buffer_after" validate:"gte=0,lte=120"`
	MakeupForLessonID string `json:"makeup_for_lesson_id" validate:"omitempty,uuid"`
}

type UpdateBookingRequest struct {
	Status   *string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled_in_time cancelled_late cancelled_by_tutor makeup makeup_used"`
	FullDate *string `json:"full_date" validate:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time" validate:"omitempty,datetime=15:04"`
	Duration *int    `json:"duration" validate:"omitempty,gt=0,lte=480"`
	Subject  *string `json:"subject"`
}

type AvailabilityRequest struct {
	Type        string   `json:"type" validate:"required,oneof=one-time weekly"`
	Date        string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Day         string   `json:"day" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	StartTime   string   `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string   `json:"end_time" validate:"required,datetime=15:04"`
	LessonModes []string `json:"lesson_modes" validate:"required,min=1,dive,oneof=online tutor_place travel"`
}

type VacationRequest struct {
	StartDateTime time.Time `json:"start_date_time" validate:"required"`
	EndDateTime   time.Time `json:"end_date_time" validate:"required,gtfield=StartDateTime"`
}

type SchoolYearRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type SettlementRequest struct {
	StudentID        string  `json:"student_id" validate:"required,uuid"`
	Month            string  `json:"month" validate:"required,datetime=2006-01"`
	PlannedHours     float64 `json:"planned_hours" validate:"gte=0"`
	CompletedHours   float64 `json:"completed_hours" validate:"gte=0"`
	PaidHours        float64 `json:"paid_hours" validate:"gte=0"`
	CarriedOverHours float64 `json:"carried_over_hours"`
	PaymentDate      string  `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Notes            string  `json:"notes"`
}

type AnnouncementRequest struct {
	Text    string `json:"text" validate:"required"`
	Publish bool   `json:"publish"`
}

type ReviewRequest struct {
	TutorID string `json:"tutor_id" validate:"omitempty,uuid"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text    string `json:"text"`
}
