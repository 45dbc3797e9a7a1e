package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brandreach/internal/core/domain"
	"brandreach/internal/core/port"
)

// NotificationService implements port.NotificationReader. Recipients
// only ever see and toggle their own notifications, so no policy check
// is needed beyond scoping every query to the actor.
type NotificationService struct {
	notifications port.NotificationRepository
}

func NewNotificationService(notifications port.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool) ([]domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, actor.ID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	ok, err := s.notifications.MarkRead(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: notification %s", port.ErrNotFound, id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}
