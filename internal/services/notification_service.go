package services

import (
	"context"

	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
)

// NotificationServiceImpl implements domain.NotificationService
type NotificationServiceImpl struct {
	repo  domain.NotificationRepository
	lists ListInvalidator
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo domain.NotificationRepository, lists ListInvalidator) domain.NotificationService {
	return &NotificationServiceImpl{repo: repo, lists: lists}
}

// ListForRecipient implements domain.NotificationService
func (s *NotificationServiceImpl) ListForRecipient(ctx context.Context, user *domain.User) ([]domain.Notification, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.ListByRecipient(ctx, user.ID)
}

// MarkRead implements domain.NotificationService. Notifications of other users
// are reported as missing.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, notificationID uint, user *domain.User) (*domain.Notification, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	n, err := s.repo.FindForRecipient(ctx, notificationID, user.ID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, n.ID); err != nil {
		return nil, err
	}
	n.IsRead = true
	s.lists.Invalidate(ctx, cache.PrefixNotificationsList)
	return n, nil
}
