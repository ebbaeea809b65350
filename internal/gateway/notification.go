package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"photojay_admin/internal/model"
)

// NotificationGateway is the current user's notifications API.
type NotificationGateway interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	UnreadNotificationCount(ctx context.Context) (int, error)
}

var _ NotificationGateway = (*Client)(nil)

const (
	opNotifications = "GET /api/notifications"
	opMarkRead      = "PUT /api/notifications/{id}/read"
	opMarkAllRead   = "PUT /api/notifications/mark-all-read"
	opUnreadCount   = "GET /api/notifications/unread-count"
)

// Notifications fetches the full notification list. The body is a bare JSON array.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	body, err := c.do(ctx, opNotifications, http.MethodGet, "/api/notifications", nil)
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err := c.decode(opNotifications, body, &raws); err != nil {
		return nil, err
	}

	notifications, problems := convertRecords(raws, notificationRecord.toModel, func(n model.Notification) int64 { return n.ID })
	c.reportDropped(opNotifications, problems)
	return notifications, nil
}

// MarkNotificationRead marks one notification as read on the server.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := c.do(ctx, opMarkRead, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", id), nil)
	return err
}

// MarkAllNotificationsRead marks every notification of the user as read on the server.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.do(ctx, opMarkAllRead, http.MethodPut, "/api/notifications/mark-all-read", nil)
	return err
}

// UnreadNotificationCount asks the server how many notifications are unread.
// The body is a bare JSON integer.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	body, err := c.do(ctx, opUnreadCount, http.MethodGet, "/api/notifications/unread-count", nil)
	if err != nil {
		return 0, err
	}

	var count int
	if err := c.decode(opUnreadCount, body, &count); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, &model.TransportError{Op: opUnreadCount, Err: fmt.Errorf("negative unread count %d", count)}
	}
	return count, nil
}
