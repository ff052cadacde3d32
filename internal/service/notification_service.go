package service

import (
	"context"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) ListNotifications(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return s.notificationRepo.FindByRecipient(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, id string) error {
	notifications, err := s.notificationRepo.FindByRecipient(ctx, recipientID)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		if n.ID == id {
			return s.notificationRepo.MarkRead(ctx, id)
		}
	}
	return ErrNotOwner
}
