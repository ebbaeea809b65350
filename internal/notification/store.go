// Package notification keeps the signed-in user's notifications in memory and
// publishes every change of the list to its subscribers.
package notification

import (
	"context"
	"log"
	"slices"

	"photojay_admin/internal/gateway"
	"photojay_admin/internal/model"
	"photojay_admin/internal/stream"
)

// Store caches the notification list until the next full fetch.
//
// Local state only changes after the server has confirmed a write. The
// unread count is always derived from the snapshot and never stored on its own.
// Published slices are never modified after publication; subscribers must not
// modify them either.
type Store struct {
	gateway  gateway.NotificationGateway
	snapshot *stream.Value[[]model.Notification]
	logger   *log.Logger
}

// NewStore creates an empty Store. A nil logger uses log.Default().
func NewStore(gw gateway.NotificationGateway, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		gateway:  gw,
		snapshot: stream.NewValue([]model.Notification{}),
		logger:   logger,
	}
}

// FetchAll replaces the snapshot with the server's list.
// On failure the snapshot is left as it was.
func (s *Store) FetchAll(ctx context.Context) ([]model.Notification, error) {
	list, err := s.gateway.Notifications(ctx)
	if err != nil {
		s.logger.Printf("[NotificationStore] FetchAll FAILED: %v", err)
		return nil, err
	}

	next := slices.Clone(list)
	if next == nil {
		next = []model.Notification{}
	}
	s.snapshot.Set(next)

	s.logger.Printf("[NotificationStore] Loaded %d notifications (%d unread)", len(next), model.CountUnread(next))
	return slices.Clone(next), nil
}

// MarkRead marks one notification read on the server, then locally.
// An id missing from the snapshot is still sent to the server.
func (s *Store) MarkRead(ctx context.Context, id int64) error {
	if err := s.gateway.MarkNotificationRead(ctx, id); err != nil {
		s.logger.Printf("[NotificationStore] MarkRead FAILED: id=%d err=%v", id, err)
		return err
	}

	s.snapshot.Update(func(cur []model.Notification) []model.Notification {
		i := slices.IndexFunc(cur, func(n model.Notification) bool { return n.ID == id })
		if i < 0 || cur[i].IsRead {
			return cur
		}
		next := slices.Clone(cur)
		next[i].IsRead = true
		return next
	})
	return nil
}

// MarkAllRead marks every notification read on the server, then locally.
func (s *Store) MarkAllRead(ctx context.Context) error {
	if err := s.gateway.MarkAllNotificationsRead(ctx); err != nil {
		s.logger.Printf("[NotificationStore] MarkAllRead FAILED: %v", err)
		return err
	}

	s.snapshot.Update(func(cur []model.Notification) []model.Notification {
		next := slices.Clone(cur)
		for i := range next {
			next[i].IsRead = true
		}
		return next
	})
	return nil
}

// UnreadCount counts unread notifications in the snapshot. No I/O.
func (s *Store) UnreadCount() int {
	return model.CountUnread(s.snapshot.Get())
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() []model.Notification {
	return slices.Clone(s.snapshot.Get())
}

// Subscribe delivers the current list immediately, then every later list.
func (s *Store) Subscribe(fn func([]model.Notification)) *stream.Subscription {
	return s.snapshot.Subscribe(fn)
}

// SubscribeUnreadCount delivers the unread count of every published list.
func (s *Store) SubscribeUnreadCount(fn func(int)) *stream.Subscription {
	return s.snapshot.Subscribe(func(list []model.Notification) {
		fn(model.CountUnread(list))
	})
}

// Set replaces the snapshot without contacting the server.
func (s *Store) Set(list []model.Notification) {
	next := slices.Clone(list)
	if next == nil {
		next = []model.Notification{}
	}
	s.snapshot.Set(next)
}

// Add puts n at the front of the list. An older copy with the same id is dropped.
func (s *Store) Add(n model.Notification) {
	s.snapshot.Update(func(cur []model.Notification) []model.Notification {
		next := make([]model.Notification, 0, len(cur)+1)
		next = append(next, n)
		for _, existing := range cur {
			if existing.ID != n.ID {
				next = append(next, existing)
			}
		}
		return next
	})
}

// Clear empties the snapshot, e.g. when the owning view closes.
func (s *Store) Clear() {
	s.snapshot.Set([]model.Notification{})
}

// CheckUnreadCount compares the local unread count with the server's and
// logs when they differ. It returns the server count.
func (s *Store) CheckUnreadCount(ctx context.Context) (int, error) {
	remote, err := s.gateway.UnreadNotificationCount(ctx)
	if err != nil {
		s.logger.Printf("[NotificationStore] CheckUnreadCount FAILED: %v", err)
		return 0, err
	}

	if local := s.UnreadCount(); local != remote {
		s.logger.Printf("[NotificationStore] WARNING: unread count diverged: local=%d server=%d", local, remote)
	}
	return remote, nil
}

// Icon names the navbar glyph for a notification kind.
func Icon(kind model.NotificationKind) string {
	switch kind {
	case model.NotificationKindGeneral:
		return "info"
	case model.NotificationKindRepublish:
		return "redo"
	default:
		return "bell"
	}
}
