package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"photojay_admin/internal/model"
	"photojay_admin/internal/repository"
)

// DemoSeed describes the demo accounts created on an empty store.
type DemoSeed struct {
	AdminUserName string
	AdminPassword string
	UserPassword  string
	Listings      int
}

var demoTitles = []string{
	"Vintage film camera", "50mm prime lens", "Carbon tripod", "Studio strobe kit",
	"Leather camera strap", "Drone with 4K camera", "Softbox pair", "Medium format body",
	"Wedding photo package", "Portrait session", "Camera backpack", "Macro lens",
}

// SeedDemoData fills an empty store with an admin, two owners, listings in
// every status and a few notifications. A store that already has users is left alone.
func SeedDemoData(
	ctx context.Context,
	users *UserService,
	listings repository.ListingRepository,
	notifications *NotificationService,
	seed DemoSeed,
) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Printf("[Seed] Store already has %d users, skipping", count)
		return nil
	}

	if _, err := users.Register(ctx, seed.AdminUserName, seed.AdminPassword, model.RoleAdmin); err != nil {
		return fmt.Errorf("register admin: %w", err)
	}

	var owners []*model.User
	for _, name := range []string{"jay", "linh"} {
		u, err := users.Register(ctx, name, seed.UserPassword, model.RoleUser)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		owners = append(owners, u)
	}

	statuses := []model.ListingStatus{
		model.ListingStatusPending, model.ListingStatusPending, model.ListingStatusApproved, model.ListingStatusRejected,
	}
	start := time.Now().UTC().Add(-time.Duration(seed.Listings) * time.Hour)
	for i := 0; i < seed.Listings; i++ {
		owner := owners[i%len(owners)]
		l := &model.Listing{
			Title:     fmt.Sprintf("%s #%d", demoTitles[i%len(demoTitles)], i+1),
			Status:    statuses[i%len(statuses)],
			IsVIP:     i%7 == 0,
			Owner:     model.Owner{ID: owner.ID, UserName: owner.UserName},
			CreatedAt: start.Add(time.Duration(i) * time.Hour),
		}
		if err := listings.Create(ctx, l); err != nil {
			return fmt.Errorf("create listing: %w", err)
		}
	}

	for _, owner := range owners {
		notifications.Notify(ctx, owner.ID, model.NotificationKindGeneral, "Welcome to PhotoJay!")
		notifications.Notify(ctx, owner.ID, model.NotificationKindRepublish, "One of your listings is about to expire. Republish it to keep it visible.")
	}

	log.Printf("[Seed] Created %d users and %d listings", len(owners)+1, seed.Listings)
	return nil
}
