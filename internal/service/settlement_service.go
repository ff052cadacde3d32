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

var ErrSettlementNotFound = errors.New("settlement not found")

type SettlementInput struct {
	StudentID        string
	Month            string // YYYY-MM
	PlannedHours     float64
	CompletedHours   float64
	PaidHours        float64
	CarriedOverHours float64
	PaymentDate      string
	Notes            string
	CreatedByID      string
}

type SettlementService interface {
	UpsertSettlement(ctx context.Context, in SettlementInput) (*models.Settlement, error)
	ListSettlements(ctx context.Context, actorID string, actorRole models.Role) ([]models.Settlement, error)
	UpdateSettlement(ctx context.Context, id string, fields map[string]any) (*models.Settlement, error)
}

type settlementService struct {
	settlementRepo repository.SettlementRepository
	userRepo       repository.UserRepository
}

func NewSettlementService(settlementRepo repository.SettlementRepository, userRepo repository.UserRepository) SettlementService {
	return &settlementService{settlementRepo: settlementRepo, userRepo: userRepo}
}

func (s *settlementService) UpsertSettlement(ctx context.Context, in SettlementInput) (*models.Settlement, error) {
	if _, err := time.Parse("2006-01", in.Month); err != nil {
		return nil, fmt.Errorf("%w: month %q", ErrBadInput, in.Month)
	}
	if _, err := s.userRepo.FindByID(ctx, in.StudentID); err != nil {
		return nil, fmt.Errorf("%w: student %s", ErrUserNotFound, in.StudentID)
	}

	// Carried-over hours from the previous month count toward what is owed.
	totalToPay := in.PlannedHours + in.CarriedOverHours
	settlement := &models.Settlement{
		StudentID:        in.StudentID,
		Month:            in.Month,
		PlannedHours:     in.PlannedHours,
		CompletedHours:   in.CompletedHours,
		TotalHoursToPay:  totalToPay,
		PaidHours:        in.PaidHours,
		Balance:          in.PaidHours - totalToPay,
		CarriedOverHours: in.CarriedOverHours,
		PaymentDate:      in.PaymentDate,
		Notes:            in.Notes,
		CreatedByID:      in.CreatedByID,
	}
	if err := s.settlementRepo.Upsert(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *settlementService) ListSettlements(ctx context.Context, actorID string, actorRole models.Role) ([]models.Settlement, error) {
	switch actorRole {
	case models.RoleAdmin, models.RoleTutor:
		return s.settlementRepo.FindAll(ctx)
	case models.RoleStudent:
		return s.settlementRepo.FindByStudents(ctx, []string{actorID})
	case models.RoleParent:
		parent, err := s.userRepo.FindByID(ctx, actorID)
		if err != nil {
			return nil, ErrUserNotFound
		}
		students, err := s.userRepo.FindStudentsOfParent(ctx, parent.Email)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(students))
		for _, st := range students {
			ids = append(ids, st.ID)
		}
		if len(ids) == 0 {
			return []models.Settlement{}, nil
		}
		return s.settlementRepo.FindByStudents(ctx, ids)
	}
	return nil, ErrForbidden
}

func (s *settlementService) UpdateSettlement(ctx context.Context, id string, fields map[string]any) (*models.Settlement, error) {
	if _, err := s.settlementRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettlementNotFound
		}
		return nil, err
	}
	if err := s.settlementRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.settlementRepo.FindByID(ctx, id)
}
