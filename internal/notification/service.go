package notification

import (
	"context"

	"github.com/example/multimart/internal/domain"
)

// Service implements the notification feed operations.
type Service struct {
	notifications Repository
}

// NewService creates a new notification service.
func NewService(notifications Repository) *Service {
	return &Service{notifications: notifications}
}

// Record appends a notification to a user's feed.
func (s *Service) Record(ctx context.Context, n *Notification) (int64, error) {
	return s.notifications.Insert(ctx, n)
}

// List returns a page of the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID int64, page domain.Page) ([]Notification, domain.Pagination, error) {
	items, total, err := s.notifications.ByUser(ctx, userID, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if items == nil {
		items = []Notification{}
	}
	return items, domain.NewPagination(total, page), nil
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	return s.notifications.MarkRead(ctx, userID, id)
}

// MarkAllRead marks the user's whole feed as read.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.notifications.Delete(ctx, userID, id)
}

// Clear empties the user's feed.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.notifications.Clear(ctx, userID)
}
