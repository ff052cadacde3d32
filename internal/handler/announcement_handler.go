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

type AnnouncementHandler struct {
	svc service.AnnouncementService
}

func NewAnnouncementHandler(svc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

func (h *AnnouncementHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/announcements", h.ListAnnouncements)
	g.POST("/announcements", h.CreateAnnouncement, middleware.RequireRole(models.RoleAdmin))
	g.POST("/announcements/:id/publish", h.PublishAnnouncement, middleware.RequireRole(models.RoleAdmin))
	g.DELETE("/announcements/:id", h.DeleteAnnouncement, middleware.RequireRole(models.RoleAdmin))
}

func (h *AnnouncementHandler) ListAnnouncements(c echo.Context) error {
	announcements, err := h.svc.ListAnnouncements(c.Request().Context(), middleware.ActorRole(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, announcements)
}

func (h *AnnouncementHandler) CreateAnnouncement(c echo.Context) error {
	var req dto.AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	announcement, err := h.svc.CreateAnnouncement(c.Request().Context(), req.Text, middleware.ActorID(c), req.Publish)
	if err != nil {
		if errors.Is(err, service.ErrBadInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, announcement)
}

func (h *AnnouncementHandler) PublishAnnouncement(c echo.Context) error {
	if err := h.svc.PublishAnnouncement(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AnnouncementHandler) DeleteAnnouncement(c echo.Context) error {
	if err := h.svc.DeleteAnnouncement(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
