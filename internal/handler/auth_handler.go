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

type AuthHandler struct {
	svc service.UserService
}

func NewAuthHandler(svc service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints.
func (h *AuthHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users/me", h.Me)
	g.GET("/tutors", h.ListTutors)
	g.PATCH("/users/:id/capabilities", h.SetCapabilities, middleware.RequireRole(models.RoleAdmin))
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		AccountType: models.Role(req.AccountType),
		ParentEmail: req.ParentEmail,
	})
	if err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.svc.GetUser(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ListTutors(c echo.Context) error {
	tutors, err := h.svc.ListTutors(c.Request().Context())
	if err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusOK, tutors)
}

func (h *AuthHandler) SetCapabilities(c echo.Context) error {
	var req struct {
		CanBook   bool `json:"can_book"`
		CanCancel bool `json:"can_cancel"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.svc.SetCapabilities(c.Request().Context(), c.Param("id"), req.CanBook, req.CanCancel)
	if err != nil {
		return authError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func authError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBadInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
