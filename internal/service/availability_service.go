package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
	"github.com/pmalinowski/tutorbase/internal/schedule"
	"gorm.io/gorm"
)

var (
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrVacationNotFound     = errors.New("vacation not found")
	ErrNotOwner             = errors.New("resource belongs to another tutor")
	ErrInvalidWindow        = errors.New("start time must be before end time")
)

type SlotsInput struct {
	TutorID      string
	Mode         models.LessonMode
	Date         string // one-off, YYYY-MM-DD
	Day          string // weekly, weekday name
	Duration     int
	BufferBefore int
	BufferAfter  int
}

type AvailabilityService interface {
	CreateWindow(ctx context.Context, a *models.Availability) error
	ListWindows(ctx context.Context, tutorID string) ([]models.Availability, error)
	UpdateWindow(ctx context.Context, tutorID string, a *models.Availability) error
	DeleteWindow(ctx context.Context, tutorID, id string) error
	CreateVacation(ctx context.Context, v *models.Vacation) error
	ListVacations(ctx context.Context, tutorID string) ([]models.Vacation, error)
	DeleteVacation(ctx context.Context, tutorID, id string) error
	AvailableSlots(ctx context.Context, in SlotsInput) ([]string, error)
	AvailableDates(ctx context.Context, tutorID string, mode models.LessonMode) ([]string, error)
}

type availabilityService struct {
	availRepo    repository.AvailabilityRepository
	vacationRepo repository.VacationRepository
	bookingRepo  repository.BookingRepository
	settingsRepo repository.SettingsRepository
	loc          *time.Location
	now          func() time.Time
}

func NewAvailabilityService(
	availRepo repository.AvailabilityRepository,
	vacationRepo repository.VacationRepository,
	bookingRepo repository.BookingRepository,
	settingsRepo repository.SettingsRepository,
	loc *time.Location,
) AvailabilityService {
	return &availabilityService{
		availRepo:    availRepo,
		vacationRepo: vacationRepo,
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *availabilityService) CreateWindow(ctx context.Context, a *models.Availability) error {
	if err := validateWindow(a); err != nil {
		return err
	}
	return s.availRepo.Create(ctx, a)
}

func (s *availabilityService) ListWindows(ctx context.Context, tutorID string) ([]models.Availability, error) {
	return s.availRepo.FindByTutor(ctx, tutorID)
}

func (s *availabilityService) UpdateWindow(ctx context.Context, tutorID string, a *models.Availability) error {
	existing, err := s.availRepo.FindByID(ctx, a.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAvailabilityNotFound
		}
		return err
	}
	if existing.TutorID != tutorID {
		return ErrNotOwner
	}
	if err := validateWindow(a); err != nil {
		return err
	}
	a.TutorID = existing.TutorID
	return s.availRepo.Update(ctx, a)
}

func (s *availabilityService) DeleteWindow(ctx context.Context, tutorID, id string) error {
	existing, err := s.availRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAvailabilityNotFound
		}
		return err
	}
	if existing.TutorID != tutorID {
		return ErrNotOwner
	}
	return s.availRepo.Delete(ctx, id)
}

func (s *availabilityService) CreateVacation(ctx context.Context, v *models.Vacation) error {
	if !v.StartDateTime.Before(v.EndDateTime) {
		return ErrInvalidWindow
	}
	return s.vacationRepo.Create(ctx, v)
}

func (s *availabilityService) ListVacations(ctx context.Context, tutorID string) ([]models.Vacation, error) {
	return s.vacationRepo.FindByTutor(ctx, tutorID)
}

func (s *availabilityService) DeleteVacation(ctx context.Context, tutorID, id string) error {
	existing, err := s.vacationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVacationNotFound
		}
		return err
	}
	if existing.TutorID != tutorID {
		return ErrNotOwner
	}
	return s.vacationRepo.Delete(ctx, id)
}

func (s *availabilityService) AvailableSlots(ctx context.Context, in SlotsInput) ([]string, error) {
	if in.Date == "" && in.Day == "" {
		return nil, fmt.Errorf("%w: date or day required", ErrBadInput)
	}
	snap, avail, err := s.snapshot(ctx, in.TutorID)
	if err != nil {
		return nil, err
	}
	slots := schedule.AvailableSlots(snap, avail, schedule.SlotQuery{
		TutorID:      in.TutorID,
		Mode:         in.Mode,
		Date:         in.Date,
		Day:          in.Day,
		Duration:     in.Duration,
		BufferBefore: in.BufferBefore,
		BufferAfter:  in.BufferAfter,
	}, s.now())
	sort.Strings(slots)
	return slots, nil
}

func (s *availabilityService) AvailableDates(ctx context.Context, tutorID string, mode models.LessonMode) ([]string, error) {
	snap, avail, err := s.snapshot(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	dates := schedule.AvailableDates(snap, avail, schedule.DateQuery{
		TutorID: tutorID,
		Mode:    mode,
	}, s.now())
	sort.Strings(dates)
	return dates, nil
}

// snapshot loads the read-only snapshot for slot/date queries. No locking:
// these are advisory listings, CreateBooking revalidates under lock.
func (s *availabilityService) snapshot(ctx context.Context, tutorID string) (schedule.Snapshot, []models.Availability, error) {
	bookings, err := s.bookingRepo.FindByTutor(ctx, tutorID)
	if err != nil {
		return schedule.Snapshot{}, nil, err
	}
	vacations, err := s.vacationRepo.FindByTutor(ctx, tutorID)
	if err != nil {
		return schedule.Snapshot{}, nil, err
	}
	year, err := s.settingsRepo.GetSchoolYear(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedule.Snapshot{}, nil, ErrSchoolYearNotSet
		}
		return schedule.Snapshot{}, nil, err
	}
	avail, err := s.availRepo.FindByTutor(ctx, tutorID)
	if err != nil {
		return schedule.Snapshot{}, nil, err
	}
	return schedule.Snapshot{
		Bookings:  bookings,
		Vacations: vacations,
		Year:      *year,
		Location:  s.loc,
	}, avail, nil
}

func validateWindow(a *models.Availability) error {
	start, okS := parseClock(a.StartTime)
	end, okE := parseClock(a.EndTime)
	if !okS || !okE {
		return fmt.Errorf("%w: %q-%q", ErrBadInput, a.StartTime, a.EndTime)
	}
	if start >= end {
		return ErrInvalidWindow
	}
	for _, m := range a.LessonModes {
		if !m.Valid() {
			return fmt.Errorf("%w: lesson mode %q", ErrBadInput, m)
		}
	}
	switch a.Type {
	case models.AvailabilityOneTime:
		if _, err := time.Parse("2006-01-02", a.Date); err != nil {
			return fmt.Errorf("%w: date %q", ErrBadInput, a.Date)
		}
	case models.AvailabilityWeekly:
		if !validWeekday(a.Day) {
			return fmt.Errorf("%w: weekday %q", ErrBadInput, a.Day)
		}
	default:
		return fmt.Errorf("%w: availability type %q", ErrBadInput, a.Type)
	}
	return nil
}

func validWeekday(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if schedule.WeekdayName(d) == day {
			return true
		}
	}
	return false
}
