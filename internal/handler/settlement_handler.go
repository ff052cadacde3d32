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

type SettlementHandler struct {
	svc service.SettlementService
}

func NewSettlementHandler(svc service.SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

func (h *SettlementHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/settlements", h.ListSettlements)
	g.POST("/settlements", h.UpsertSettlement, middleware.RequireRole(models.RoleTutor, models.RoleAdmin))
	g.PATCH("/settlements/:id", h.UpdateSettlement, middleware.RequireRole(models.RoleTutor, models.RoleAdmin))
}

func (h *SettlementHandler) ListSettlements(c echo.Context) error {
	settlements, err := h.svc.ListSettlements(c.Request().Context(), middleware.ActorID(c), middleware.ActorRole(c))
	if err != nil {
		return settlementError(err)
	}
	return c.JSON(http.StatusOK, settlements)
}

func (h *SettlementHandler) UpsertSettlement(c echo.Context) error {
	var req dto.SettlementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	settlement, err := h.svc.UpsertSettlement(c.Request().Context(), service.SettlementInput{
		StudentID:        req.StudentID,
		Month:            req.Month,
		PlannedHours:     req.PlannedHours,
		CompletedHours:   req.CompletedHours,
		PaidHours:        req.PaidHours,
		CarriedOverHours: req.CarriedOverHours,
		PaymentDate:      req.PaymentDate,
		Notes:            req.Notes,
		CreatedByID:      middleware.ActorID(c),
	})
	if err != nil {
		return settlementError(err)
	}
	return c.JSON(http.StatusOK, settlement)
}

func (h *SettlementHandler) UpdateSettlement(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	settlement, err := h.svc.UpdateSettlement(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return settlementError(err)
	}
	return c.JSON(http.StatusOK, settlement)
}

func settlementError(err error) error {
	switch {
	case errors.Is(err, service.ErrSettlementNotFound), errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBadInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
