package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"photojay_admin/internal/model"
	"photojay_admin/internal/queue"
	"photojay_admin/internal/repository"
)

// =============================================================================
// FAKE STATS CACHE
// =============================================================================

type fakeStatsCache struct {
	stats  model.AdminStats
	found  bool
	getErr error

	setCalls        int
	invalidateCalls int
}

func (c *fakeStatsCache) Get(ctx context.Context) (model.AdminStats, bool, error) {
	return c.stats, c.found, c.getErr
}

func (c *fakeStatsCache) Set(ctx context.Context, stats model.AdminStats) error {
	c.setCalls++
	c.stats = stats
	c.found = true
	return nil
}

func (c *fakeStatsCache) Invalidate(ctx context.Context) error {
	c.invalidateCalls++
	c.found = false
	return nil
}

type fakePublisher struct {
	events []queue.ModerationEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, stream string, event queue.ModerationEvent) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "1-0", nil
}

// moderationFixture wires the service to in-memory repositories with one
// owner and one pending listing.
type moderationFixture struct {
	svc      *ModerationService
	notifs   repository.NotificationRepository
	listings repository.ListingRepository
	cache    *fakeStatsCache
	owner    *model.User
	listing  *model.Listing
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()
	ctx := context.Background()

	store := repository.NewMemoryStore()
	users := repository.NewMemoryUserRepository(store)
	listings := repository.NewMemoryListingRepository(store)
	notifs := repository.NewMemoryNotificationRepository(store)

	owner := &model.User{UserName: "jay", Role: model.RoleUser}
	if err := users.Create(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	listing := &model.Listing{Title: "Carbon tripod", Owner: model.Owner{ID: owner.ID}}
	if err := listings.Create(ctx, listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}

	cache := &fakeStatsCache{}
	return &moderationFixture{
		svc:      NewModerationService(listings, users, NewNotificationService(notifs), cache),
		notifs:   notifs,
		listings: listings,
		cache:    cache,
		owner:    owner,
		listing:  listing,
	}
}

// =============================================================================
// MODERATE TESTS
// =============================================================================

func TestModerationService_Moderate_ApproveNotifiesOwner(t *testing.T) {
	f := newModerationFixture(t)
	ctx := context.Background()

	got, err := f.svc.Moderate(ctx, f.listing.ID, &model.ModerateRequest{Status: model.ListingStatusApproved})
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	if got.Status != model.ListingStatusApproved {
		t.Errorf("status = %s, want APPROVED", got.Status)
	}

	notifs, _ := f.notifs.ListByUser(ctx, f.owner.ID)
	if len(notifs) != 1 || !strings.Contains(notifs[0].Message, "approved") {
		t.Errorf("owner notifications = %+v, want one approval notice", notifs)
	}
	if f.cache.invalidateCalls != 1 {
		t.Errorf("Invalidate called %d times, want 1", f.cache.invalidateCalls)
	}
}

func TestModerationService_Moderate_RejectCarriesReason(t *testing.T) {
	f := newModerationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Moderate(ctx, f.listing.ID, &model.ModerateRequest{Status: "rejected", Reason: "  blurry photos "})
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}

	stored, _ := f.listings.GetByID(ctx, f.listing.ID)
	if stored.Status != model.ListingStatusRejected {
		t.Errorf("stored status = %s, want REJECTED", stored.Status)
	}
	notifs, _ := f.notifs.ListByUser(ctx, f.owner.ID)
	if len(notifs) != 1 || !strings.HasSuffix(notifs[0].Message, ": blurry photos") {
		t.Errorf("owner notifications = %+v, want trimmed reason", notifs)
	}
}

func TestModerationService_Moderate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  model.ModerateRequest
		want error
	}{
		{"pending is not a decision", model.ModerateRequest{Status: model.ListingStatusPending}, model.ErrInvalidStatus},
		{"unknown status", model.ModerateRequest{Status: "ARCHIVED"}, model.ErrInvalidStatus},
		{"reject without reason", model.ModerateRequest{Status: model.ListingStatusRejected, Reason: " \t"}, model.ErrEmptyRejectReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newModerationFixture(t)
			ctx := context.Background()

			_, err := f.svc.Moderate(ctx, f.listing.ID, &tt.req)

			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			stored, _ := f.listings.GetByID(ctx, f.listing.ID)
			if stored.Status != model.ListingStatusPending {
				t.Errorf("status changed to %s on invalid input", stored.Status)
			}
			if n, _ := f.notifs.GetUnreadCount(ctx, f.owner.ID); n != 0 {
				t.Errorf("owner got %d notifications, want 0", n)
			}
		})
	}
}

func TestModerationService_Moderate_UnknownListing(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.svc.Moderate(context.Background(), 999, &model.ModerateRequest{Status: model.ListingStatusApproved})

	if !errors.Is(err, model.ErrListingNotFound) {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}
}

func TestModerationService_Moderate_PublishesInsteadOfNotifying(t *testing.T) {
	f := newModerationFixture(t)
	ctx := context.Background()
	pub := &fakePublisher{}
	f.svc.SetPublisher(pub)

	if _, err := f.svc.Moderate(ctx, f.listing.ID, &model.ModerateRequest{Status: model.ListingStatusRejected, Reason: "spam"}); err != nil {
		t.Fatalf("Moderate: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Type != queue.EventListingModerated || ev.OwnerID != f.owner.ID || ev.Reason != "spam" {
		t.Errorf("event = %+v", ev)
	}
	// The worker creates the notification, not the request path
	if n, _ := f.notifs.GetUnreadCount(ctx, f.owner.ID); n != 0 {
		t.Errorf("owner got %d inline notifications, want 0", n)
	}
}

func TestModerationService_Moderate_PublishFailureFallsBackInline(t *testing.T) {
	f := newModerationFixture(t)
	ctx := context.Background()
	f.svc.SetPublisher(&fakePublisher{err: errors.New("stream unavailable")})

	if _, err := f.svc.Moderate(ctx, f.listing.ID, &model.ModerateRequest{Status: model.ListingStatusApproved}); err != nil {
		t.Fatalf("Moderate: %v", err)
	}

	if n, _ := f.notifs.GetUnreadCount(ctx, f.owner.ID); n != 1 {
		t.Errorf("owner got %d notifications, want 1", n)
	}
}

// =============================================================================
// VIP AND STATS TESTS
// =============================================================================

func TestModerationService_ToggleVIP(t *testing.T) {
	f := newModerationFixture(t)
	ctx := context.Background()

	first, err := f.svc.ToggleVIP(ctx, f.listing.ID)
	if err != nil {
		t.Fatalf("ToggleVIP: %v", err)
	}
	second, err := f.svc.ToggleVIP(ctx, f.listing.ID)
	if err != nil {
		t.Fatalf("ToggleVIP: %v", err)
	}

	if !first.IsVIP || second.IsVIP {
		t.Errorf("VIP after two toggles = %t, %t; want true, false", first.IsVIP, second.IsVIP)
	}
	if first.Owner.UserName != "jay" {
		t.Errorf("owner = %q, want jay", first.Owner.UserName)
	}
	if f.cache.invalidateCalls != 2 {
		t.Errorf("Invalidate called %d times, want 2", f.cache.invalidateCalls)
	}
}

func TestModerationService_GetStats_MissPopulatesCache(t *testing.T) {
	f := newModerationFixture(t)

	stats, err := f.svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	want := model.AdminStats{TotalProducts: 1, PendingProducts: 1, TotalUsers: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if f.cache.setCalls != 1 {
		t.Errorf("Set called %d times, want 1", f.cache.setCalls)
	}
}

func TestModerationService_GetStats_HitSkipsRepositories(t *testing.T) {
	f := newModerationFixture(t)
	cached := model.AdminStats{TotalProducts: 77}
	f.cache.stats, f.cache.found = cached, true

	stats, err := f.svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats != cached {
		t.Errorf("stats = %+v, want cached %+v", stats, cached)
	}
	if f.cache.setCalls != 0 {
		t.Error("Set should not be called on a cache hit")
	}
}

func TestModerationService_GetStats_CacheErrorFallsThrough(t *testing.T) {
	f := newModerationFixture(t)
	f.cache.getErr = errors.New("redis down")

	stats, err := f.svc.GetStats(context.Background())

	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalProducts != 1 {
		t.Errorf("TotalProducts = %d, want 1", stats.TotalProducts)
	}
}

func TestModerationService_Listings(t *testing.T) {
	f := newModerationFixture(t)
	ctx := context.Background()
	approved := &model.Listing{Title: "Macro lens", Status: model.ListingStatusApproved, Owner: model.Owner{ID: f.owner.ID}}
	if err := f.listings.Create(ctx, approved); err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := f.svc.GetPendingListings(ctx)
	if err != nil {
		t.Fatalf("GetPendingListings: %v", err)
	}
	all, err := f.svc.GetAllListings(ctx)
	if err != nil {
		t.Fatalf("GetAllListings: %v", err)
	}

	if len(pending) != 1 || pending[0].ID != f.listing.ID {
		t.Errorf("pending = %+v, want only the pending listing", pending)
	}
	if len(all) != 2 {
		t.Errorf("all has %d listings, want 2", len(all))
	}
}

// =============================================================================
// NOTIFICATION SERVICE TESTS
// =============================================================================

func TestNotificationService_ReadFlow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewNotificationService(repository.NewMemoryNotificationRepository(store))

	svc.Notify(ctx, 3, model.NotificationKindGeneral, "one")
	svc.Notify(ctx, 3, model.NotificationKindRepublish, "two")
	svc.Notify(ctx, 4, model.NotificationKindGeneral, "other user")

	list, err := svc.GetNotifications(ctx, 3)
	if err != nil {
		t.Fatalf("GetNotifications: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications, want 2", len(list))
	}

	if err := svc.MarkAsRead(ctx, 3, list[0].ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if n, _ := svc.GetUnreadCount(ctx, 3); n != 1 {
		t.Errorf("unread = %d, want 1", n)
	}

	// Another user's notification is not visible to user 3.
	other, _ := svc.GetNotifications(ctx, 4)
	if err := svc.MarkAsRead(ctx, 3, other[0].ID); !errors.Is(err, model.ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound", err)
	}

	if err := svc.MarkAllAsRead(ctx, 3); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}
	if n, _ := svc.GetUnreadCount(ctx, 3); n != 0 {
		t.Errorf("unread = %d, want 0", n)
	}
	if n, _ := svc.GetUnreadCount(ctx, 4); n != 1 {
		t.Errorf("user 4 unread = %d, want 1", n)
	}
}

func TestSeedDemoData_OnlyOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	users := NewUserService(repository.NewMemoryUserRepository(store))
	listings := repository.NewMemoryListingRepository(store)
	notifs := NewNotificationService(repository.NewMemoryNotificationRepository(store))
	seed := DemoSeed{AdminUserName: "admin", AdminPassword: "admin", UserPassword: "pw", Listings: 8}

	if err := SeedDemoData(ctx, users, listings, notifs, seed); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}
	if err := SeedDemoData(ctx, users, listings, notifs, seed); err != nil {
		t.Fatalf("second SeedDemoData: %v", err)
	}

	if n, _ := users.Count(ctx); n != 3 {
		t.Errorf("users = %d, want 3", n)
	}
	all, _ := listings.List(ctx, nil)
	if len(all) != 8 {
		t.Errorf("listings = %d, want 8", len(all))
	}
	pending := model.ListingStatusPending
	pend, _ := listings.List(ctx, &pending)
	if len(pend) != 4 {
		t.Errorf("pending listings = %d, want 4", len(pend))
	}
}
