package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
	"gorm.io/gorm"
)

type SettingsService interface {
	GetSchoolYear(ctx context.Context) (*models.SchoolYear, error)
	PutSchoolYear(ctx context.Context, startDate, endDate string) (*models.SchoolYear, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSchoolYear(ctx context.Context) (*models.SchoolYear, error) {
	year, err := s.settingsRepo.GetSchoolYear(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolYearNotSet
		}
		return nil, err
	}
	return year, nil
}

func (s *settingsService) PutSchoolYear(ctx context.Context, startDate, endDate string) (*models.SchoolYear, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", ErrBadInput, startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", ErrBadInput, endDate)
	}
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	year := &models.SchoolYear{StartDate: startDate, EndDate: endDate}
	if err := s.settingsRepo.PutSchoolYear(ctx, year); err != nil {
		return nil, err
	}
	return year, nil
}
