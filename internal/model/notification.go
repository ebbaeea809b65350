package model

import (
	"strings"
	"time"
)

// NotificationKind distinguishes plain notices from republish reminders.
type NotificationKind string

const (
	NotificationKindGeneral   NotificationKind = "GENERAL"
	NotificationKindRepublish NotificationKind = "REPUBLISH"
)

// ParseNotificationKind normalizes a wire value into a known kind.
func ParseNotificationKind(raw string) (NotificationKind, bool) {
	switch k := NotificationKind(strings.ToUpper(strings.TrimSpace(raw))); k {
	case NotificationKindGeneral, NotificationKindRepublish:
		return k, true
	default:
		return "", false
	}
}

// Notification represents a single notification record for the current user.
// IsRead only ever moves from false to true through the client API.
type Notification struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"userId"` // Recipient
	Kind      NotificationKind `db:"type" json:"type"`
	Message   string           `db:"message" json:"message"`
	IsRead    bool             `db:"is_read" json:"isRead"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// CountUnread returns how many notifications in the slice are unread.
func CountUnread(notifications []Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.IsRead {
			n++
		}
	}
	return n
}
