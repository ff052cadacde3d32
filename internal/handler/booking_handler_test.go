package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pmalinowski/tutorbase/internal/dto"
	"github.com/pmalinowski/tutorbase/internal/middleware"
	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/schedule"
	"github.com/pmalinowski/tutorbase/internal/service"
	"github.com/stretchr/testify/assert"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn    func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error)
	recurringFn func(ctx context.Context, in service.CreateRecurringInput) ([]models.Booking, error)
	cancelFn    func(ctx context.Context, id, actorID string, role models.Role) (*models.Booking, error)
	listFn      func(ctx context.Context, actorID string, role models.Role) ([]models.Booking, error)
	getFn       func(ctx context.Context, id string) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, in)
}
func (m *mockBookingService) CreateRecurringBooking(ctx context.Context, in service.CreateRecurringInput) ([]models.Booking, error) {
	return m.recurringFn(ctx, in)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, id, actorID string, role models.Role) (*models.Booking, error) {
	return m.cancelFn(ctx, id, actorID, role)
}
func (m *mockBookingService) CompletePastBookings(ctx context.Context) (int, error) { return 0, nil }
func (m *mockBookingService) ListBookings(ctx context.Context, actorID string, role models.Role) ([]models.Booking, error) {
	return m.listFn(ctx, actorID, role)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) AdminUpdateBooking(ctx context.Context, id string, upd service.AdminBookingUpdate) (*models.Booking, error) {
	return nil, nil
}
func (m *mockBookingService) DeleteBooking(ctx context.Context, id string, role models.Role) error {
	return nil
}

const (
	testTutorID   = "6f0a2a1e-9d6a-4a53-9a1d-1f2e3d4c5b6a"
	testStudentID = "a1b2c3d4-0000-4000-8000-1234567890ab"
)

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = middleware.NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetActor(c, testStudentID, models.RoleStudent)
	return c, rec
}

func oneOffBody() string {
	return `{"tutor_id":"` + testTutorID + `","student_id":"` + testStudentID + `",` +
		`"subject":"math","full_date":"2026-09-07","time":"14:00","duration":60,"lesson_mode":"online"}`
}

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			return &models.Booking{
				ID:       "b-1",
				TutorID:  in.TutorID,
				FullDate: in.FullDate,
				Time:     in.Time,
				Status:   models.StatusScheduled,
			}, nil
		},
	}

	c, rec := newContext(t, http.MethodPost, "/api/v1/bookings", oneOffBody())
	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.ID)
	assert.Equal(t, models.StatusScheduled, resp.Status)
	assert.Equal(t, "2026-09-07", resp.FullDate)
}

func TestCreateBooking_Handler_SlotTaken(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			return nil, service.ErrSlotTaken
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/bookings", oneOffBody())
	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateBooking_Handler_RecurringNoOccurrences(t *testing.T) {
	svc := &mockBookingService{
		recurringFn: func(ctx context.Context, in service.CreateRecurringInput) ([]models.Booking, error) {
			return nil, schedule.ErrNoOccurrences
		},
	}

	body := `{"tutor_id":"` + testTutorID + `","student_id":"` + testStudentID + `",` +
		`"is_recurring":true,"day":"monday","time":"14:00","duration":60}`
	c, _ := newContext(t, http.MethodPost, "/api/v1/bookings", body)
	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateBooking_Handler_RecurringReturnsBatch(t *testing.T) {
	svc := &mockBookingService{
		recurringFn: func(ctx context.Context, in service.CreateRecurringInput) ([]models.Booking, error) {
			return []models.Booking{
				{ID: "b-1", FullDate: "2026-09-07", Day: in.Day, IsRecurring: true},
				{ID: "b-2", FullDate: "2026-09-14", Day: in.Day, IsRecurring: true},
			}, nil
		},
	}

	body := `{"tutor_id":"` + testTutorID + `","student_id":"` + testStudentID + `",` +
		`"is_recurring":true,"day":"monday","time":"14:00","duration":60}`
	c, rec := newContext(t, http.MethodPost, "/api/v1/bookings", body)
	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp []dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.True(t, resp[0].IsRecurring)
}

func TestCreateBooking_Handler_RecurringMissingDay(t *testing.T) {
	body := `{"tutor_id":"` + testTutorID + `","student_id":"` + testStudentID + `",` +
		`"is_recurring":true,"time":"14:00"}`
	c, _ := newContext(t, http.MethodPost, "/api/v1/bookings", body)
	h := NewBookingHandler(nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_InvalidTime(t *testing.T) {
	body := `{"tutor_id":"` + testTutorID + `","student_id":"` + testStudentID + `",` +
		`"full_date":"2026-09-07","time":"2pm"}`
	c, _ := newContext(t, http.MethodPost, "/api/v1/bookings", body)
	h := NewBookingHandler(nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCancelBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, id, actorID string, role models.Role) (*models.Booking, error) {
			return &models.Booking{
				ID:              id,
				Status:          models.StatusCancelledInTime,
				CancelledByRole: role,
			}, nil
		},
	}

	c, rec := newContext(t, http.MethodPost, "/api/v1/bookings/b-1/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("b-1")
	h := NewBookingHandler(svc)
	err := h.CancelBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCancelledInTime, resp.Status)
	assert.Equal(t, models.RoleStudent, resp.CancelledByRole)
}

func TestCancelBooking_Handler_NotFound(t *testing.T) {
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, id, actorID string, role models.Role) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/bookings/missing/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	h := NewBookingHandler(svc)
	err := h.CancelBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCancelBooking_Handler_NotCancellable(t *testing.T) {
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, id, actorID string, role models.Role) (*models.Booking, error) {
			return nil, service.ErrNotCancellable
		},
	}

	c, _ := newContext(t, http.MethodPost, "/api/v1/bookings/b-1/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("b-1")
	h := NewBookingHandler(svc)
	err := h.CancelBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestListBookings_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		listFn: func(ctx context.Context, actorID string, role models.Role) ([]models.Booking, error) {
			assert.Equal(t, testStudentID, actorID)
			assert.Equal(t, models.RoleStudent, role)
			return []models.Booking{
				{ID: "b-1", Status: models.StatusScheduled},
				{ID: "b-2", Status: models.StatusCompleted},
			}, nil
		},
	}

	c, rec := newContext(t, http.MethodGet, "/api/v1/bookings", "")
	h := NewBookingHandler(svc)
	err := h.ListBookings(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestGetBooking_Handler_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	c, _ := newContext(t, http.MethodGet, "/api/v1/bookings/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	h := NewBookingHandler(svc)
	err := h.GetBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
