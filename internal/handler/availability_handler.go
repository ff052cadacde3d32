package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pmalinowski/tutorbase/internal/dto"
	"github.com/pmalinowski/tutorbase/internal/middleware"
	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/service"
)

type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func (h *AvailabilityHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/tutors/:id/slots", h.AvailableSlots)
	g.GET("/tutors/:id/dates", h.AvailableDates)

	g.POST("/availability", h.CreateWindow, middleware.RequireRole(models.RoleTutor))
	g.GET("/availability", h.ListWindows)
	g.PUT("/availability/:id", h.UpdateWindow, middleware.RequireRole(models.RoleTutor))
	g.DELETE("/availability/:id", h.DeleteWindow, middleware.RequireRole(models.RoleTutor))

	g.POST("/vacations", h.CreateVacation, middleware.RequireRole(models.RoleTutor))
	g.GET("/vacations", h.ListVacations)
	g.DELETE("/vacations/:id", h.DeleteVacation, middleware.RequireRole(models.RoleTutor))
}

func (h *AvailabilityHandler) AvailableSlots(c echo.Context) error {
	duration := 60
	if d := c.QueryParam("duration"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid duration")
		}
		duration = n
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), service.SlotsInput{
		TutorID:  c.Param("id"),
		Mode:     models.LessonMode(c.QueryParam("mode")),
		Date:     c.QueryParam("date"),
		Day:      c.QueryParam("day"),
		Duration: duration,
	})
	if err != nil {
		return availabilityError(err)
	}
	if slots == nil {
		slots = []string{}
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *AvailabilityHandler) AvailableDates(c echo.Context) error {
	dates, err := h.svc.AvailableDates(
		c.Request().Context(), c.Param("id"),
		models.LessonMode(c.QueryParam("mode")),
	)
	if err != nil {
		return availabilityError(err)
	}
	if dates == nil {
		dates = []string{}
	}
	return c.JSON(http.StatusOK, dates)
}

func (h *AvailabilityHandler) CreateWindow(c echo.Context) error {
	var req dto.AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	window := availabilityFromRequest(&req)
	window.TutorID = middleware.ActorID(c)
	if err := h.svc.CreateWindow(c.Request().Context(), window); err != nil {
		return availabilityError(err)
	}
	return c.JSON(http.StatusCreated, window)
}

func (h *AvailabilityHandler) ListWindows(c echo.Context) error {
	tutorID := c.QueryParam("tutor_id")
	if tutorID == "" {
		tutorID = middleware.ActorID(c)
	}
	windows, err := h.svc.ListWindows(c.Request().Context(), tutorID)
	if err != nil {
		return availabilityError(err)
	}
	return c.JSON(http.StatusOK, windows)
}

func (h *AvailabilityHandler) UpdateWindow(c echo.Context) error {
	var req dto.AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	window := availabilityFromRequest(&req)
	window.ID = c.Param("id")
	if err := h.svc.UpdateWindow(c.Request().Context(), middleware.ActorID(c), window); err != nil {
		return availabilityError(err)
	}
	return c.JSON(http.StatusOK, window)
}

func (h *AvailabilityHandler) DeleteWindow(c echo.Context) error {
	if err := h.svc.DeleteWindow(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return availabilityError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AvailabilityHandler) CreateVacation(c echo.Context) error {
	var req dto.VacationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vacation := &models.Vacation{
		TutorID:       middleware.ActorID(c),
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
	}
	if err := h.svc.CreateVacation(c.Request().Context(), vacation); err != nil {
		return availabilityError(err)
	}
	return c.JSON(http.StatusCreated, vacation)
}

func (h *AvailabilityHandler) ListVacations(c echo.Context) error {
	tutorID := c.QueryParam("tutor_id")
	if tutorID == "" {
		tutorID = middleware.ActorID(c)
	}
	vacations, err := h.svc.ListVacations(c.Request().Context(), tutorID)
	if err != nil {
		return availabilityError(err)
	}
	return c.JSON(http.StatusOK, vacations)
}

func (h *AvailabilityHandler) DeleteVacation(c echo.Context) error {
	if err := h.svc.DeleteVacation(c.Request().Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		return availabilityError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func availabilityFromRequest(req *dto.AvailabilityRequest) *models.Availability {
	modes := make(models.ModeList, len(req.LessonModes))
	for i, m := range req.LessonModes {
		modes[i] = models.LessonMode(m)
	}
	return &models.Availability{
		Type:        models.AvailabilityType(req.Type),
		Date:        req.Date,
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		LessonModes: modes,
	}
}

func availabilityError(err error) error {
	switch {
	case errors.Is(err, service.ErrAvailabilityNotFound), errors.Is(err, service.ErrVacationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidWindow), errors.Is(err, service.ErrBadInput),
		errors.Is(err, service.ErrSchoolYearNotSet):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
