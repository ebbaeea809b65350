package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"photojay_admin/internal/model"
)

// MemoryStore backs the in-memory repositories used when no DATABASE_URL is set.
// Data lives only as long as the process.
type MemoryStore struct {
	mu            sync.Mutex
	users         []model.User
	listings      []listingRecord
	notifications []model.Notification
	nextID        int64
	now           func() time.Time
}

type listingRecord struct {
	model.Listing
	ownerID int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memoryUserRepository struct{ s *MemoryStore }

func NewMemoryUserRepository(s *MemoryStore) UserRepository {
	return &memoryUserRepository{s: s}
}

func (r *memoryUserRepository) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u.ID = r.s.id()
	u.CreatedAt = r.s.now().UTC()
	r.s.users = append(r.s.users, *u)
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memoryUserRepository) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.UserName == userName {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *memoryUserRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

type memoryListingRepository struct{ s *MemoryStore }

func NewMemoryListingRepository(s *MemoryStore) ListingRepository {
	return &memoryListingRepository{s: s}
}

func (r *memoryListingRepository) Create(ctx context.Context, l *model.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if l.Status == "" {
		l.Status = model.ListingStatusPending
	}
	l.ID = r.s.id()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.s.now().UTC()
	}
	r.s.listings = append(r.s.listings, listingRecord{Listing: *l, ownerID: l.Owner.ID})
	return nil
}

// withOwner resolves the owner's current user name. Caller holds the lock.
func (r *memoryListingRepository) withOwner(rec listingRecord) model.Listing {
	l := rec.Listing
	for _, u := range r.s.users {
		if u.ID == rec.ownerID {
			l.Owner = model.Owner{ID: u.ID, UserName: u.UserName}
			break
		}
	}
	return l
}

func (r *memoryListingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.listings {
		if rec.ID == id {
			l := r.withOwner(rec)
			return &l, nil
		}
	}
	return nil, model.ErrListingNotFound
}

func (r *memoryListingRepository) List(ctx context.Context, status *model.ListingStatus) ([]model.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	listings := []model.Listing{}
	for _, rec := range r.s.listings {
		if status != nil && rec.Status != *status {
			continue
		}
		listings = append(listings, r.withOwner(rec))
	}

	// newest first, like the SQL ORDER BY
	slices.SortStableFunc(listings, func(a, b model.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return listings, nil
}

func (r *memoryListingRepository) UpdateStatus(ctx context.Context, id int64, status model.ListingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.listings {
		if r.s.listings[i].ID == id {
			r.s.listings[i].Status = status
			return nil
		}
	}
	return model.ErrListingNotFound
}

func (r *memoryListingRepository) ToggleVIP(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.listings {
		if r.s.listings[i].ID == id {
			r.s.listings[i].IsVIP = !r.s.listings[i].IsVIP
			return r.s.listings[i].IsVIP, nil
		}
	}
	return false, model.ErrListingNotFound
}

func (r *memoryListingRepository) CountStats(ctx context.Context) (model.AdminStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var stats model.AdminStats
	for _, rec := range r.s.listings {
		stats.TotalProducts++
		switch rec.Status {
		case model.ListingStatusPending:
			stats.PendingProducts++
		case model.ListingStatusApproved:
			stats.ApprovedProducts++
		case model.ListingStatusRejected:
			stats.RejectedProducts++
		}
		if rec.IsVIP {
			stats.VIPProducts++
		}
	}
	return stats, nil
}

type memoryNotificationRepository struct{ s *MemoryStore }

func NewMemoryNotificationRepository(s *MemoryStore) NotificationRepository {
	return &memoryNotificationRepository{s: s}
}

func (r *memoryNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = r.s.id()
	n.IsRead = false
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now().UTC()
	}
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *memoryNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []model.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r *memoryNotificationRepository) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.notifications {
		n := &r.s.notifications[i]
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return model.ErrNotificationNotFound
}

func (r *memoryNotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.notifications {
		if r.s.notifications[i].UserID == userID {
			r.s.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memoryNotificationRepository) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
