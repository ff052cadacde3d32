// Package notify fans lesson events out to the interested parties: the
// counterparty of the actor plus, for students, the linked parent. Rows land
// in the notifications table and a copy goes to the message broker for
// external consumers. Notification delivery is best-effort: failures are
// logged and never bubble back into the booking flow.
package notify

import (
	"context"
	"fmt"

	"github.com/pmalinowski/tutorbase/internal/models"
	"github.com/pmalinowski/tutorbase/internal/repository"
	"go.uber.org/zap"
)

const (
	RoutingKeyBooked    = "lesson.booked"
	RoutingKeyCancelled = "lesson.cancelled"
)

// EventPublisher is satisfied by rabbitmq.Publisher.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type Notifier struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	publisher     EventPublisher
	logger        *zap.Logger
}

func NewNotifier(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		logger:        logger,
	}
}

func (n *Notifier) NotifyBooking(ctx context.Context, booking *models.Booking, actor models.Role) {
	msg := fmt.Sprintf("Lesson booked: %s with %s on %s at %s",
		booking.Subject, booking.TutorName, booking.FullDate, booking.Time)
	n.fanOut(ctx, booking, actor, msg, RoutingKeyBooked)
}

func (n *Notifier) NotifyCancellation(ctx context.Context, booking *models.Booking, actor models.Role) {
	msg := fmt.Sprintf("Lesson cancelled: %s with %s on %s at %s",
		booking.Subject, booking.TutorName, booking.FullDate, booking.Time)
	n.fanOut(ctx, booking, actor, msg, RoutingKeyCancelled)
}

func (n *Notifier) fanOut(ctx context.Context, booking *models.Booking, actor models.Role, message, routingKey string) {
	for _, recipientID := range n.recipients(ctx, booking, actor) {
		err := n.notifications.Create(ctx, &models.Notification{
			RecipientID: recipientID,
			Message:     message,
		})
		if err != nil {
			n.logger.Error("create notification",
				zap.String("recipient_id", recipientID),
				zap.String("booking_id", booking.ID),
				zap.Error(err))
		}
	}

	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(routingKey, booking); err != nil {
		n.logger.Error("publish lesson event",
			zap.String("routing_key", routingKey),
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
}

// recipients implements the fan-out matrix: the actor never notifies
// themselves, students always pull in their linked parent, and admin actions
// notify everyone involved.
func (n *Notifier) recipients(ctx context.Context, booking *models.Booking, actor models.Role) []string {
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		for _, have := range ids {
			if have == id {
				return
			}
		}
		ids = append(ids, id)
	}

	switch actor {
	case models.RoleStudent:
		add(n.parentID(ctx, booking.StudentID))
		add(booking.TutorID)
	case models.RoleTutor:
		add(booking.StudentID)
		add(n.parentID(ctx, booking.StudentID))
	case models.RoleParent:
		add(booking.StudentID)
		add(booking.TutorID)
	case models.RoleAdmin:
		add(booking.StudentID)
		add(n.parentID(ctx, booking.StudentID))
		add(booking.TutorID)
	}
	return ids
}

func (n *Notifier) parentID(ctx context.Context, studentID string) string {
	student, err := n.users.FindByID(ctx, studentID)
	if err != nil || student.ParentEmail == "" {
		return ""
	}
	parent, err := n.users.FindByEmail(ctx, student.ParentEmail)
	if err != nil {
		n.logger.Warn("resolve parent",
			zap.String("student_id", studentID),
			zap.Error(err))
		return ""
	}
	return parent.ID
}
