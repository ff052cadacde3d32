package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
	"github.com/pmalinowski/tutorbase/internal/schedule"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrSlotTaken         = errors.New("slot is already taken")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrSchoolYearNotSet  = errors.New("school year is not configured")
	ErrNotMakeupEligible = errors.New("original lesson is not eligible for a makeup")
	ErrNotCancellable    = errors.New("booking can no longer be cancelled")
	ErrBadInput          = errors.New("invalid date or time")
	ErrForbidden         = errors.New("operation not permitted for this role")
)

// LessonNotifier is satisfied by notify.Notifier.
type LessonNotifier interface {
	NotifyBooking(ctx context.Context, booking *models.Booking, actor models.Role)
	NotifyCancellation(ctx context.Context, booking *models.Booking, actor models.Role)
}

type CreateBookingInput struct {
	TutorID           string
	StudentID         string
	Subject           string
	FullDate          string // YYYY-MM-DD
	Time              string // HH:MM
	Duration          int
	LessonMode        models.LessonMode
	BufferBefore      int
	BufferAfter       int
	MakeupForLessonID string
	ActorID           string
	ActorRole         models.Role
}

type CreateRecurringInput struct {
	TutorID           string
	StudentID         string
	Subject           string
	Day               string // weekday name
	Time              string // HH:MM
	Duration          int
	LessonMode        models.LessonMode
	BufferBefore      int
	BufferAfter       int
	MakeupForLessonID string
	ActorID           string
	ActorRole         models.Role
}

type AdminBookingUpdate struct {
	Status   *models.BookingStatus
	FullDate *string
	Time     *string
	Duration *int
	Subject  *string
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	CreateRecurringBooking(ctx context.Context, in CreateRecurringInput) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID string, actorRole models.Role) (*models.Booking, error)
	CompletePastBookings(ctx context.Context) (int, error)
	ListBookings(ctx context.Context, actorID string, actorRole models.Role) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	AdminUpdateBooking(ctx context.Context, id string, upd AdminBookingUpdate) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string, actorRole models.Role) error
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	userRepo     repository.UserRepository
	vacationRepo repository.VacationRepository
	settingsRepo repository.SettingsRepository
	notifier     LessonNotifier
	logger       *zap.Logger
	loc          *time.Location
	now          func() time.Time
	runTx        func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	vacationRepo repository.VacationRepository,
	settingsRepo repository.SettingsRepository,
	notifier LessonNotifier,
	logger *zap.Logger,
	loc *time.Location,
) BookingService {
	s := &bookingService{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		vacationRepo: vacationRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		logger:       logger,
		loc:          loc,
		now:          time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return s.bookingRepo.GetDB().WithContext(ctx).Transaction(fn)
	}
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if _, err := time.ParseInLocation("2006-01-02 15:04", in.FullDate+" "+in.Time, s.loc); err != nil {
		return nil, fmt.Errorf("%w: %q %q", ErrBadInput, in.FullDate, in.Time)
	}
	if in.Duration <= 0 {
		in.Duration = 60
	}

	tutor, student, err := s.resolveParties(ctx, in.TutorID, in.StudentID)
	if err != nil {
		return nil, err
	}

	var result *models.Booking
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		// 1. Lock the tutor's bookings, serializing concurrent slot claims
		snap, err := s.lockedSnapshot(ctx, tx, in.TutorID)
		if err != nil {
			return err
		}

		// 2. Conflict check against the locked calendar
		if schedule.IsSlotTaken(snap, schedule.ConflictQuery{
			TutorID:      in.TutorID,
			Date:         in.FullDate,
			Time:         in.Time,
			Duration:     in.Duration,
			BufferBefore: in.BufferBefore,
			BufferAfter:  in.BufferAfter,
		}) {
			return ErrSlotTaken
		}

		booking := &models.Booking{
			TutorID:       in.TutorID,
			TutorName:     tutor.FullName(),
			StudentID:     in.StudentID,
			StudentName:   student.FullName(),
			Subject:       in.Subject,
			FullDate:      in.FullDate,
			Time:          in.Time,
			Duration:      in.Duration,
			LessonMode:    in.LessonMode,
			BufferBefore:  in.BufferBefore,
			BufferAfter:   in.BufferAfter,
			Status:        models.StatusScheduled,
			CreatedByID:   in.ActorID,
			CreatedByRole: in.ActorRole,
		}

		// 3. Makeup linkage: consume the original inside the same transaction
		if in.MakeupForLessonID != "" {
			if err := s.consumeOriginal(ctx, tx, in.MakeupForLessonID); err != nil {
				return err
			}
			id := in.MakeupForLessonID
			booking.Status = models.StatusMakeup
			booking.OriginalLessonID = &id
		}

		// 4. Insert; the partial unique index backstops the check above
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyBooking(ctx, result, in.ActorRole)
	return result, nil
}

func (s *bookingService) CreateRecurringBooking(ctx context.Context, in CreateRecurringInput) ([]models.Booking, error) {
	if _, ok := parseClock(in.Time); !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadInput, in.Time)
	}
	if in.Duration <= 0 {
		in.Duration = 60
	}

	tutor, student, err := s.resolveParties(ctx, in.TutorID, in.StudentID)
	if err != nil {
		return nil, err
	}

	var result []models.Booking
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		// 1. Lock, snapshot
		snap, err := s.lockedSnapshot(ctx, tx, in.TutorID)
		if err != nil {
			return err
		}

		// 2. Expand the weekly commitment through school-year end
		bookings, err := schedule.ExpandWeekly(snap, schedule.ExpandRequest{
			TutorID:           in.TutorID,
			TutorName:         tutor.FullName(),
			StudentID:         in.StudentID,
			StudentName:       student.FullName(),
			Subject:           in.Subject,
			Day:               in.Day,
			Time:              in.Time,
			Duration:          in.Duration,
			LessonMode:        in.LessonMode,
			BufferBefore:      in.BufferBefore,
			BufferAfter:       in.BufferAfter,
			MakeupForLessonID: in.MakeupForLessonID,
			CreatedByID:       in.ActorID,
			CreatedByRole:     in.ActorRole,
		}, s.now())
		if err != nil {
			return err
		}

		// 3. Makeup linkage before the batch lands
		if in.MakeupForLessonID != "" {
			if err := s.consumeOriginal(ctx, tx, in.MakeupForLessonID); err != nil {
				return err
			}
		}

		// 4. Whole expansion in one write: all occurrences or none
		if err := s.bookingRepo.CreateBatch(ctx, tx, bookings); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return err
		}
		result = bookings
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyBooking(ctx, &result[0], in.ActorRole)
	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, actorID string, actorRole models.Role) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !booking.Status.Active() {
		return nil, ErrNotCancellable
	}

	startsAt, err := booking.StartsAt(s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: stored slot unparseable", ErrBadInput)
	}

	status := models.CancellationStatus(actorRole, startsAt.Sub(s.now()))
	err = s.bookingRepo.UpdateFields(ctx, bookingID, map[string]any{
		"status":            status,
		"cancelled_by_role": actorRole,
	})
	if err != nil {
		return nil, err
	}

	booking.Status = status
	booking.CancelledByRole = actorRole
	s.notifier.NotifyCancellation(ctx, booking, actorRole)
	return booking, nil
}

// CompletePastBookings flips every active lesson whose end time has passed to
// completed. Invoked by the background sweeper and before list reads.
func (s *bookingService) CompletePastBookings(ctx context.Context) (int, error) {
	active, err := s.bookingRepo.FindByStatuses(ctx, []models.BookingStatus{
		models.StatusScheduled, models.StatusMakeup,
	})
	if err != nil {
		return 0, err
	}

	now := s.now()
	completed := 0
	for i := range active {
		startsAt, err := active[i].StartsAt(s.loc)
		if err != nil {
			s.logger.Warn("skip unparseable booking in sweep",
				zap.String("booking_id", active[i].ID))
			continue
		}
		if startsAt.Add(time.Duration(active[i].Duration) * time.Minute).After(now) {
			continue
		}
		err = s.bookingRepo.UpdateStatus(ctx, s.bookingRepo.GetDB(), active[i].ID, models.StatusCompleted)
		if err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actorID string, actorRole models.Role) ([]models.Booking, error) {
	if _, err := s.CompletePastBookings(ctx); err != nil {
		s.logger.Warn("complete past bookings before list", zap.Error(err))
	}

	switch actorRole {
	case models.RoleAdmin:
		return s.bookingRepo.FindAll(ctx)
	case models.RoleTutor:
		return s.bookingRepo.FindByTutor(ctx, actorID)
	case models.RoleStudent:
		return s.bookingRepo.FindByStudentIDs(ctx, []string{actorID})
	case models.RoleParent:
		parent, err := s.userRepo.FindByID(ctx, actorID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		students, err := s.userRepo.FindStudentsOfParent(ctx, parent.Email)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(students))
		for _, st := range students {
			ids = append(ids, st.ID)
		}
		if len(ids) == 0 {
			return []models.Booking{}, nil
		}
		return s.bookingRepo.FindByStudentIDs(ctx, ids)
	}
	return nil, ErrForbidden
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) AdminUpdateBooking(ctx context.Context, id string, upd AdminBookingUpdate) (*models.Booking, error) {
	if _, err := s.GetBooking(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.FullDate != nil {
		if _, err := time.ParseInLocation("2006-01-02", *upd.FullDate, s.loc); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadInput, *upd.FullDate)
		}
		fields["full_date"] = *upd.FullDate
	}
	if upd.Time != nil {
		if _, ok := parseClock(*upd.Time); !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadInput, *upd.Time)
		}
		fields["time"] = *upd.Time
	}
	if upd.Duration != nil {
		fields["duration"] = *upd.Duration
	}
	if upd.Subject != nil {
		fields["subject"] = *upd.Subject
	}
	if len(fields) == 0 {
		return s.GetBooking(ctx, id)
	}

	if err := s.bookingRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetBooking(ctx, id)
}

func (s *bookingService) DeleteBooking(ctx context.Context, id string, actorRole models.Role) error {
	if actorRole != models.RoleTutor && actorRole != models.RoleAdmin {
		return ErrForbidden
	}
	if _, err := s.GetBooking(ctx, id); err != nil {
		return err
	}
	return s.bookingRepo.Delete(ctx, id)
}

// lockedSnapshot assembles the conflict-check snapshot with the tutor's
// booking rows locked for the duration of the surrounding transaction.
func (s *bookingService) lockedSnapshot(ctx context.Context, tx *gorm.DB, tutorID string) (schedule.Snapshot, error) {
	bookings, err := s.bookingRepo.FindByTutorForUpdate(ctx, tx, tutorID)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	vacations, err := s.vacationRepo.FindByTutor(ctx, tutorID)
	if err != nil {
		return schedule.Snapshot{}, err
	}
	year, err := s.settingsRepo.GetSchoolYear(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedule.Snapshot{}, ErrSchoolYearNotSet
		}
		return schedule.Snapshot{}, err
	}
	return schedule.Snapshot{
		Bookings:  bookings,
		Vacations: vacations,
		Year:      *year,
		Location:  s.loc,
	}, nil
}

func (s *bookingService) resolveParties(ctx context.Context, tutorID, studentID string) (tutor, student *models.User, err error) {
	tutor, err = s.userRepo.FindByID(ctx, tutorID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: tutor %s", ErrUserNotFound, tutorID)
	}
	student, err = s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: student %s", ErrUserNotFound, studentID)
	}
	return tutor, student, nil
}

// consumeOriginal marks a cancelled lesson's makeup credit as spent. The
// original row is read under its own lock; the tutor-row lock does not cover
// it when the makeup is booked with a different tutor.
func (s *bookingService) consumeOriginal(ctx context.Context, tx *gorm.DB, originalID string) error {
	original, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, originalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: original lesson %s", ErrBookingNotFound, originalID)
		}
		return err
	}
	if !original.Status.MakeupEligible() {
		return ErrNotMakeupEligible
	}
	return s.bookingRepo.UpdateStatus(ctx, tx, originalID, models.StatusMakeupUsed)
}

func parseClock(clock string) (int, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
