package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pmalinowski/tutorbase/internal/dto"
	"github.com/pmalinowski/tutorbase/internal/middleware"
	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/schedule"
	"github.com/pmalinowski/tutorbase/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings", h.ListBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.POST("/bookings/:id/cancel", h.CancelBooking)
	g.PATCH("/bookings/:id", h.UpdateBooking, middleware.RequireRole(models.RoleAdmin))
	g.DELETE("/bookings/:id", h.DeleteBooking, middleware.RequireRole(models.RoleTutor, models.RoleAdmin))
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.IsRecurring && req.Day == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "day is required for recurring bookings")
	}
	if !req.IsRecurring && req.FullDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_date is required for one-off bookings")
	}

	ctx := c.Request().Context()
	actorID, actorRole := middleware.ActorID(c), middleware.ActorRole(c)

	if req.IsRecurring {
		bookings, err := h.svc.CreateRecurringBooking(ctx, service.CreateRecurringInput{
			TutorID:           req.TutorID,
			StudentID:         req.StudentID,
			Subject:           req.Subject,
			Day:               req.Day,
			Time:              req.Time,
			Duration:          req.Duration,
			LessonMode:        models.LessonMode(req.LessonMode),
			BufferBefore:      req.BufferBefore,
			BufferAfter:       req.BufferAfter,
			MakeupForLessonID: req.MakeupForLessonID,
			ActorID:           actorID,
			ActorRole:         actorRole,
		})
		if err != nil {
			return bookingError(err)
		}
		return c.JSON(http.StatusCreated, dto.ToBookingResponses(bookings))
	}

	booking, err := h.svc.CreateBooking(ctx, service.CreateBookingInput{
		TutorID:           req.TutorID,
		StudentID:         req.StudentID,
		Subject:           req.Subject,
		FullDate:          req.FullDate,
		Time:              req.Time,
		Duration:          req.Duration,
		LessonMode:        models.LessonMode(req.LessonMode),
		BufferBefore:      req.BufferBefore,
		BufferAfter:       req.BufferAfter,
		MakeupForLessonID: req.MakeupForLessonID,
		ActorID:           actorID,
		ActorRole:         actorRole,
	})
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.ListBookings(c.Request().Context(), middleware.ActorID(c), middleware.ActorRole(c))
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	booking, err := h.svc.CancelBooking(
		c.Request().Context(), c.Param("id"),
		middleware.ActorID(c), middleware.ActorRole(c),
	)
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	upd := service.AdminBookingUpdate{
		FullDate: req.FullDate,
		Time:     req.Time,
		Duration: req.Duration,
		Subject:  req.Subject,
	}
	if req.Status != nil {
		status := models.BookingStatus(*req.Status)
		upd.Status = &status
	}

	booking, err := h.svc.AdminUpdateBooking(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	err := h.svc.DeleteBooking(c.Request().Context(), c.Param("id"), middleware.ActorRole(c))
	if err != nil {
		return bookingError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func bookingError(err error) error {
	switch {
	case errors.Is(err, service.ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, schedule.ErrNoOccurrences):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBookingNotFound), errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotMakeupEligible), errors.Is(err, service.ErrNotCancellable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrBadInput), errors.Is(err, service.ErrSchoolYearNotSet):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
