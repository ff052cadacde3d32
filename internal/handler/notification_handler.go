package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pmalinowski/tutorbase/internal/middleware"
	"github.com/pmalinowski/tutorbase/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.POST("/notifications/:id/read", h.MarkRead)
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	notifications, err := h.svc.ListNotifications(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	err := h.svc.MarkRead(c.Request().Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
