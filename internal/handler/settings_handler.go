package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pmalinowski/tutorbase/internal/dto"
	"github.com/pmalinowski/tutorbase/internal/middleware"
	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/service"
)

type SettingsHandler struct {
	svc service.SettingsService
}

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/settings/school-year", h.GetSchoolYear)
	g.PUT("/settings/school-year", h.PutSchoolYear, middleware.RequireRole(models.RoleAdmin))
}

func (h *SettingsHandler) GetSchoolYear(c echo.Context) error {
	year, err := h.svc.GetSchoolYear(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrSchoolYearNotSet) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, year)
}

func (h *SettingsHandler) PutSchoolYear(c echo.Context) error {
	var req dto.SchoolYearRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	year, err := h.svc.PutSchoolYear(c.Request().Context(), req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, service.ErrBadInput) || errors.Is(err, service.ErrInvalidWindow) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, year)
}
