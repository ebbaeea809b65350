package service

import (
	"context"
	"log"

	"photojay_admin/internal/model"
	"photojay_admin/internal/repository"
)

// NotificationService handles notification-related business logic.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// GetNotifications returns all notifications for a user, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID)
}

// MarkAsRead marks one notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.notifRepo.MarkAsRead(ctx, userID, notificationID)
}

// MarkAllAsRead marks all notifications for a user as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the number of unread notifications (for badge display).
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.notifRepo.GetUnreadCount(ctx, userID)
}

// Notify stores a notification for userID.
// Failures are logged, not returned, so they never fail the action that triggered them.
func (s *NotificationService) Notify(ctx context.Context, userID int64, kind model.NotificationKind, message string) {
	n := &model.Notification{UserID: userID, Kind: kind, Message: message}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		log.Printf("[Notification] Failed to notify user=%d: %v", userID, err)
		return
	}
	log.Printf("[Notification] Created id=%d for user=%d type=%s", n.ID, userID, kind)
}
