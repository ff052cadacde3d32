package service

import (
	"context"
	"errors"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, text, createdByID string, publish bool) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context, actorRole models.Role) ([]models.Announcement, error)
	PublishAnnouncement(ctx context.Context, id string) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo}
}

func (s *announcementService) CreateAnnouncement(ctx context.Context, text, createdByID string, publish bool) (*models.Announcement, error) {
	if text == "" {
		return nil, ErrBadInput
	}
	a := &models.Announcement{
		Text:        text,
		Status:      models.AnnouncementDraft,
		CreatedByID: createdByID,
	}
	if publish {
		a.Status = models.AnnouncementPublished
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAnnouncements shows drafts to admins only; everyone else sees published.
func (s *announcementService) ListAnnouncements(ctx context.Context, actorRole models.Role) ([]models.Announcement, error) {
	if actorRole == models.RoleAdmin {
		return s.announcementRepo.FindAll(ctx)
	}
	return s.announcementRepo.FindPublished(ctx)
}

func (s *announcementService) PublishAnnouncement(ctx context.Context, id string) error {
	return s.announcementRepo.UpdateStatus(ctx, id, models.AnnouncementPublished)
}

func (s *announcementService) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.announcementRepo.Delete(ctx, id)
}
