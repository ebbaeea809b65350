package repository

import (
	"context"

	"photojay_admin/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type ListingRepository interface {
	// Create inserts a listing owned by listing.Owner.ID and fills in ID and CreatedAt
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	// List returns listings newest first; a nil status returns every listing
	List(ctx context.Context, status *model.ListingStatus) ([]model.Listing, error)
	UpdateStatus(ctx context.Context, id int64, status model.ListingStatus) error
	// ToggleVIP flips the VIP flag and returns the new value
	ToggleVIP(ctx context.Context, id int64) (bool, error)
	// CountStats fills the listing counters of AdminStats
	CountStats(ctx context.Context) (model.AdminStats, error)
}

type NotificationRepository interface {
	// Create inserts a new notification and fills in ID and CreatedAt
	Create(ctx context.Context, notification *model.Notification) error
	// ListByUser returns a user's notifications newest first
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	// MarkAsRead marks one of the user's notifications as read
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
	// MarkAllAsRead marks all notifications for a user as read
	MarkAllAsRead(ctx context.Context, userID int64) error
	GetUnreadCount(ctx context.Context, userID int64) (int, error)
}
