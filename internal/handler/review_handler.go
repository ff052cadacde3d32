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

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reviews", h.ListReviews)
	g.POST("/reviews", h.CreateReview)
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	reviews, err := h.svc.ListReviews(c.Request().Context(), c.QueryParam("tutor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req dto.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review := &models.Review{
		AuthorID: middleware.ActorID(c),
		TutorID:  req.TutorID,
		Rating:   req.Rating,
		Text:     req.Text,
	}
	if err := h.svc.CreateReview(c.Request().Context(), review); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, review)
}
