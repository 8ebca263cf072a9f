package service

import (
	"context"
	"fmt"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// NotificationService exposes the read side of the notification history.
// Records are written only by the dispatcher.
type NotificationService struct {
	notifications repo.NotificationRepo
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repo.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListByEmail returns one page of a user's notification history, newest first,
// with the total record count for that user.
func (s *NotificationService) ListByEmail(ctx context.Context, email string, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	records, total, err := s.notifications.ListByEmail(ctx, email, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.NotificationService.ListByEmail: %w", err)
	}
	if records == nil {
		records = []domain.Notification{}
	}
	return records, total, nil
}

// ListRecentByEmail returns a user's notifications from the last days days.
func (s *NotificationService) ListRecentByEmail(ctx context.Context, email string, days int) ([]domain.Notification, error) {
	if days <= 0 {
		days = 30
	}
	records, err := s.notifications.ListRecentByEmail(ctx, email, days)
	if err != nil {
		return nil, fmt.Errorf("service.NotificationService.ListRecentByEmail: %w", err)
	}
	if records == nil {
		records = []domain.Notification{}
	}
	return records, nil
}
