package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewService interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviews(ctx context.Context, tutorID string) ([]models.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, userRepo: userRepo}
}

func (s *reviewService) CreateReview(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}
	author, err := s.userRepo.FindByID(ctx, review.AuthorID)
	if err != nil {
		return fmt.Errorf("%w: author %s", ErrUserNotFound, review.AuthorID)
	}
	review.AuthorName = author.FullName()
	return s.reviewRepo.Create(ctx, review)
}

// ListReviews returns all reviews, or one tutor's when tutorID is set.
func (s *reviewService) ListReviews(ctx context.Context, tutorID string) ([]models.Review, error) {
	if tutorID == "" {
		return s.reviewRepo.FindAll(ctx)
	}
	return s.reviewRepo.FindByTutor(ctx, tutorID)
}
