package service

import (
	"context"
	"testing"
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	created        []*models.Booking
	batches        [][]models.Booking
	findByIDFn     func(ctx context.Context, id string) (*models.Booking, error)
	findLockedFn   func(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error)
	forUpdateFn    func(ctx context.Context, tx *gorm.DB, tutorID string) ([]models.Booking, error)
	byStatusesFn   func(ctx context.Context, statuses []models.BookingStatus) ([]models.Booking, error)
	byStudentIDsFn func(ctx context.Context, ids []string) ([]models.Booking, error)
	lockedReads    []string
	statusUpdates  map[string]models.BookingStatus
	fieldUpdates   map[string]map[string]any
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		statusUpdates: map[string]models.BookingStatus{},
		fieldUpdates:  map[string]map[string]any{},
	}
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	b.ID = "new-booking"
	m.created = append(m.created, b)
	return nil
}
func (m *mockBookingRepo) CreateBatch(ctx context.Context, tx *gorm.DB, bookings []models.Booking) error {
	m.batches = append(m.batches, bookings)
	return nil
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error) {
	m.lockedReads = append(m.lockedReads, id)
	if m.findLockedFn != nil {
		return m.findLockedFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockBookingRepo) FindByTutor(ctx context.Context, tutorID string) ([]models.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) FindByTutorForUpdate(ctx context.Context, tx *gorm.DB, tutorID string) ([]models.Booking, error) {
	if m.forUpdateFn != nil {
		return m.forUpdateFn(ctx, tx, tutorID)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindByStudentIDs(ctx context.Context, ids []string) ([]models.Booking, error) {
	if m.byStudentIDsFn != nil {
		return m.byStudentIDsFn(ctx, ids)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindByCreator(ctx context.Context, creatorID string) ([]models.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) { return nil, nil }
func (m *mockBookingRepo) FindByStatuses(ctx context.Context, statuses []models.BookingStatus) ([]models.Booking, error) {
	if m.byStatusesFn != nil {
		return m.byStatusesFn(ctx, statuses)
	}
	return nil, nil
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.BookingStatus) error {
	m.statusUpdates[id] = status
	return nil
}
func (m *mockBookingRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	m.fieldUpdates[id] = fields
	return nil
}
func (m *mockBookingRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockBookingRepo) GetDB() *gorm.DB                             { return nil }

// --- Mock UserRepository ---

type mockUserRepo struct {
	users map[string]*models.User
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) FindByAccountType(ctx context.Context, accountType models.Role) ([]models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindStudentsOfParent(ctx context.Context, parentEmail string) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.AccountType == models.RoleStudent && u.ParentEmail == parentEmail {
			out = append(out, *u)
		}
	}
	return out, nil
}
func (m *mockUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return nil
}

// --- Mock VacationRepository ---

type mockVacationRepo struct {
	vacations []models.Vacation
}

func (m *mockVacationRepo) Create(ctx context.Context, v *models.Vacation) error { return nil }
func (m *mockVacationRepo) FindByID(ctx context.Context, id string) (*models.Vacation, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockVacationRepo) FindByTutor(ctx context.Context, tutorID string) ([]models.Vacation, error) {
	return m.vacations, nil
}
func (m *mockVacationRepo) Delete(ctx context.Context, id string) error { return nil }

// --- Mock SettingsRepository ---

type mockSettingsRepo struct {
	year *models.SchoolYear
}

func (m *mockSettingsRepo) GetSchoolYear(ctx context.Context) (*models.SchoolYear, error) {
	if m.year == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.year, nil
}
func (m *mockSettingsRepo) PutSchoolYear(ctx context.Context, year *models.SchoolYear) error {
	m.year = year
	return nil
}

// --- Mock LessonNotifier ---

type mockNotifier struct {
	booked    []*models.Booking
	cancelled []*models.Booking
}

func (m *mockNotifier) NotifyBooking(ctx context.Context, b *models.Booking, actor models.Role) {
	m.booked = append(m.booked, b)
}
func (m *mockNotifier) NotifyCancellation(ctx context.Context, b *models.Booking, actor models.Role) {
	m.cancelled = append(m.cancelled, b)
}

// --- Fixtures ---

const (
	tutorID   = "6f0a2a1e-9d6a-4a53-9a1d-1f2e3d4c5b6a"
	studentID = "a1b2c3d4-0000-4000-8000-1234567890ab"
	parentID  = "b2c3d4e5-0000-4000-8000-1234567890ab"
)

// 2026-09-02 is a Wednesday inside the 2026/27 school year.
var testNow = time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

func testUsers() map[string]*models.User {
	return map[string]*models.User{
		tutorID: {
			ID: tutorID, Email: "anna@example.com",
			FirstName: "Anna", LastName: "Nowak", AccountType: models.RoleTutor,
		},
		studentID: {
			ID: studentID, Email: "jan@example.com",
			FirstName: "Jan", LastName: "Kowalski", AccountType: models.RoleStudent,
			ParentEmail: "maria@example.com",
		},
		parentID: {
			ID: parentID, Email: "maria@example.com",
			FirstName: "Maria", LastName: "Kowalska", AccountType: models.RoleParent,
		},
	}
}

type fixture struct {
	svc      *bookingService
	bookings *mockBookingRepo
	users    *mockUserRepo
	notifier *mockNotifier
	settings *mockSettingsRepo
	vacation *mockVacationRepo
}

func newFixture() *fixture {
	f := &fixture{
		bookings: newMockBookingRepo(),
		users:    &mockUserRepo{users: testUsers()},
		notifier: &mockNotifier{},
		settings: &mockSettingsRepo{year: &models.SchoolYear{
			ID: models.SchoolYearID, StartDate: "2026-09-01", EndDate: "2027-06-30",
		}},
		vacation: &mockVacationRepo{},
	}
	svc := NewBookingService(
		f.bookings, f.users, f.vacation, f.settings,
		f.notifier, zap.NewNop(), time.UTC,
	).(*bookingService)
	svc.now = func() time.Time { return testNow }
	svc.runTx = func(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }
	f.svc = svc
	return f
}

func oneOffInput() CreateBookingInput {
	return CreateBookingInput{
		TutorID:    tutorID,
		StudentID:  studentID,
		Subject:    "math",
		FullDate:   "2026-09-07",
		Time:       "14:00",
		Duration:   60,
		LessonMode: models.ModeOnline,
		ActorID:    studentID,
		ActorRole:  models.RoleStudent,
	}
}

// --- Tests ---

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.CreateBooking(context.Background(), oneOffInput())

	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, booking.Status)
	assert.Equal(t, "Anna Nowak", booking.TutorName)
	assert.Equal(t, "Jan Kowalski", booking.StudentName)
	assert.False(t, booking.IsRecurring)
	assert.Len(t, f.bookings.created, 1)
	assert.Len(t, f.notifier.booked, 1)
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	f := newFixture()
	f.bookings.forUpdateFn = func(ctx context.Context, tx *gorm.DB, id string) ([]models.Booking, error) {
		return []models.Booking{{
			ID: "existing", TutorID: tutorID, FullDate: "2026-09-07", Time: "14:30",
			Duration: 60, Status: models.StatusScheduled,
		}}, nil
	}

	booking, err := f.svc.CreateBooking(context.Background(), oneOffInput())

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, booking)
	assert.Empty(t, f.bookings.created)
	assert.Empty(t, f.notifier.booked)
}

func TestCreateBooking_ReleasedSlotRebookable(t *testing.T) {
	f := newFixture()
	f.bookings.forUpdateFn = func(ctx context.Context, tx *gorm.DB, id string) ([]models.Booking, error) {
		return []models.Booking{{
			ID: "cancelled", TutorID: tutorID, FullDate: "2026-09-07", Time: "14:00",
			Duration: 60, Status: models.StatusCancelledInTime,
		}}, nil
	}

	_, err := f.svc.CreateBooking(context.Background(), oneOffInput())

	assert.NoError(t, err)
	assert.Len(t, f.bookings.created, 1)
}

func TestCreateBooking_MakeupLinkage(t *testing.T) {
	f := newFixture()
	f.bookings.findLockedFn = func(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.StatusCancelledInTime}, nil
	}

	in := oneOffInput()
	in.MakeupForLessonID = "original-1"
	booking, err := f.svc.CreateBooking(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, models.StatusMakeup, booking.Status)
	require.NotNil(t, booking.OriginalLessonID)
	assert.Equal(t, "original-1", *booking.OriginalLessonID)
	assert.Equal(t, models.StatusMakeupUsed, f.bookings.statusUpdates["original-1"])
	// the eligibility check must go through the locked read
	assert.Equal(t, []string{"original-1"}, f.bookings.lockedReads)
}

func TestCreateBooking_MakeupNotEligible(t *testing.T) {
	f := newFixture()
	f.bookings.findLockedFn = func(ctx context.Context, tx *gorm.DB, id string) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.StatusScheduled}, nil
	}

	in := oneOffInput()
	in.MakeupForLessonID = "original-1"
	_, err := f.svc.CreateBooking(context.Background(), in)

	assert.ErrorIs(t, err, ErrNotMakeupEligible)
	assert.Empty(t, f.bookings.created)
}

func TestCreateBooking_BadInput(t *testing.T) {
	f := newFixture()

	in := oneOffInput()
	in.Time = "25:99"
	_, err := f.svc.CreateBooking(context.Background(), in)

	assert.ErrorIs(t, err, ErrBadInput)
}

func TestCreateBooking_SchoolYearMissing(t *testing.T) {
	f := newFixture()
	f.settings.year = nil

	_, err := f.svc.CreateBooking(context.Background(), oneOffInput())

	assert.ErrorIs(t, err, ErrSchoolYearNotSet)
}

func TestCreateRecurringBooking_WholeYearInOneBatch(t *testing.T) {
	f := newFixture()
	f.settings.year = &models.SchoolYear{
		ID: models.SchoolYearID, StartDate: "2026-09-01", EndDate: "2026-11-09",
	}

	bookings, err := f.svc.CreateRecurringBooking(context.Background(), CreateRecurringInput{
		TutorID:    tutorID,
		StudentID:  studentID,
		Subject:    "math",
		Day:        "monday",
		Time:       "14:00",
		Duration:   60,
		LessonMode: models.ModeOnline,
		ActorID:    studentID,
		ActorRole:  models.RoleStudent,
	})

	require.NoError(t, err)
	assert.Len(t, bookings, 10)
	assert.Equal(t, "2026-09-07", bookings[0].FullDate)
	assert.Equal(t, "2026-11-09", bookings[9].FullDate)
	for _, b := range bookings {
		assert.True(t, b.IsRecurring)
		assert.Equal(t, "monday", b.Day)
	}
	require.Len(t, f.bookings.batches, 1)
	assert.Len(t, f.bookings.batches[0], 10)
	assert.Len(t, f.notifier.booked, 1)
}

func TestCreateRecurringBooking_NoOccurrences(t *testing.T) {
	f := newFixture()
	f.vacation.vacations = []models.Vacation{{
		TutorID:       tutorID,
		StartDateTime: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC),
	}}

	_, err := f.svc.CreateRecurringBooking(context.Background(), CreateRecurringInput{
		TutorID:   tutorID,
		StudentID: studentID,
		Day:       "monday",
		Time:      "14:00",
		Duration:  60,
		ActorID:   studentID,
		ActorRole: models.RoleStudent,
	})

	assert.ErrorIs(t, err, schedule.ErrNoOccurrences)
	assert.Empty(t, f.bookings.batches)
}

func cancellable(date, clock string) *models.Booking {
	return &models.Booking{
		ID: "b-1", TutorID: tutorID, StudentID: studentID,
		FullDate: date, Time: clock, Duration: 60,
		Status: models.StatusScheduled,
	}
}

func TestCancelBooking_InTime(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFn = func(ctx context.Context, id string) (*models.Booking, error) {
		return cancellable("2026-09-07", "14:00"), nil
	}

	booking, err := f.svc.CancelBooking(context.Background(), "b-1", studentID, models.RoleStudent)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelledInTime, booking.Status)
	assert.Equal(t, models.RoleStudent, booking.CancelledByRole)
	assert.Len(t, f.notifier.cancelled, 1)
}

func TestCancelBooking_Late(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFn = func(ctx context.Context, id string) (*models.Booking, error) {
		// under 24h before testNow (2026-09-02 10:00)
		return cancellable("2026-09-02", "18:00"), nil
	}

	booking, err := f.svc.CancelBooking(context.Background(), "b-1", studentID, models.RoleStudent)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelledLate, booking.Status)
}

func TestCancelBooking_ByTutorIgnoresLeadTime(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFn = func(ctx context.Context, id string) (*models.Booking, error) {
		return cancellable("2026-09-02", "18:00"), nil
	}

	booking, err := f.svc.CancelBooking(context.Background(), "b-1", tutorID, models.RoleTutor)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelledByTutor, booking.Status)
}

func TestCancelBooking_NotCancellable(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFn = func(ctx context.Context, id string) (*models.Booking, error) {
		b := cancellable("2026-09-07", "14:00")
		b.Status = models.StatusCompleted
		return b, nil
	}

	_, err := f.svc.CancelBooking(context.Background(), "b-1", studentID, models.RoleStudent)

	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CancelBooking(context.Background(), "missing", studentID, models.RoleStudent)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCompletePastBookings(t *testing.T) {
	f := newFixture()
	f.bookings.byStatusesFn = func(ctx context.Context, statuses []models.BookingStatus) ([]models.Booking, error) {
		return []models.Booking{
			{ID: "past", FullDate: "2026-09-01", Time: "08:00", Duration: 60, Status: models.StatusScheduled},
			{ID: "future", FullDate: "2026-09-07", Time: "14:00", Duration: 60, Status: models.StatusScheduled},
			{ID: "running", FullDate: "2026-09-02", Time: "09:30", Duration: 60, Status: models.StatusMakeup},
		}, nil
	}

	n, err := f.svc.CompletePastBookings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.StatusCompleted, f.bookings.statusUpdates["past"])
	assert.NotContains(t, f.bookings.statusUpdates, "future")
	assert.NotContains(t, f.bookings.statusUpdates, "running")
}

func TestListBookings_ParentSeesLinkedStudents(t *testing.T) {
	f := newFixture()
	var queried []string
	f.bookings.byStudentIDsFn = func(ctx context.Context, ids []string) ([]models.Booking, error) {
		queried = ids
		return []models.Booking{{ID: "b-1", StudentID: studentID}}, nil
	}

	bookings, err := f.svc.ListBookings(context.Background(), parentID, models.RoleParent)

	require.NoError(t, err)
	assert.Equal(t, []string{studentID}, queried)
	assert.Len(t, bookings, 1)
}

func TestDeleteBooking_RoleGate(t *testing.T) {
	f := newFixture()

	err := f.svc.DeleteBooking(context.Background(), "b-1", models.RoleStudent)

	assert.ErrorIs(t, err, ErrForbidden)
}
