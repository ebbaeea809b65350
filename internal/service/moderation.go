package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"photojay_admin/internal/cache"
	"photojay_admin/internal/model"
	"photojay_admin/internal/queue"
	"photojay_admin/internal/repository"
)

// ModerationService handles the admin listing workflow.
type ModerationService struct {
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
	notifService *NotificationService
	statsCache   cache.StatsCache // Can be nil if Redis not configured
	publisher    queue.Publisher  // Can be nil; owners are then notified inline
}

func NewModerationService(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifService *NotificationService,
	statsCache cache.StatsCache,
) *ModerationService {
	return &ModerationService{
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		notifService: notifService,
		statsCache:   statsCache,
	}
}

// SetPublisher hands owner notifications to the moderation stream workers.
func (s *ModerationService) SetPublisher(p queue.Publisher) {
	s.publisher = p
}

// GetStats returns the dashboard counters, from the cache when possible.
// Cache errors fall through to the repositories.
func (s *ModerationService) GetStats(ctx context.Context) (model.AdminStats, error) {
	if s.statsCache != nil {
		if stats, found, err := s.statsCache.Get(ctx); err == nil && found {
			return stats, nil
		}
	}

	stats, err := s.listingRepo.CountStats(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}
	stats.TotalUsers = users

	if s.statsCache != nil {
		_ = s.statsCache.Set(ctx, stats)
	}
	return stats, nil
}

// GetPendingListings returns listings awaiting a decision, newest first.
func (s *ModerationService) GetPendingListings(ctx context.Context) ([]model.Listing, error) {
	pending := model.ListingStatusPending
	return s.listingRepo.List(ctx, &pending)
}

// GetAllListings returns every listing, newest first.
func (s *ModerationService) GetAllListings(ctx context.Context) ([]model.Listing, error) {
	return s.listingRepo.List(ctx, nil)
}

// Moderate approves or rejects a listing and notifies its owner.
// REJECTED requires a non-blank reason.
func (s *ModerationService) Moderate(ctx context.Context, listingID int64, req *model.ModerateRequest) (*model.Listing, error) {
	status, ok := model.ParseListingStatus(string(req.Status))
	if !ok || status == model.ListingStatusPending {
		return nil, model.ErrInvalidStatus
	}
	reason := strings.TrimSpace(req.Reason)
	if status == model.ListingStatusRejected && reason == "" {
		return nil, model.ErrEmptyRejectReason
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := s.listingRepo.UpdateStatus(ctx, listingID, status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	listing.Status = status
	s.invalidateStats(ctx)

	log.Printf("[Moderation] Listing %d set to %s", listingID, status)

	event := queue.NewListingModeratedEvent(listing, reason)
	if s.publish(ctx, event) {
		return listing, nil
	}
	s.notifService.Notify(ctx, listing.Owner.ID, model.NotificationKindGeneral, event.NotificationMessage())

	return listing, nil
}

// publish reports whether the event reached the stream.
func (s *ModerationService) publish(ctx context.Context, event queue.ModerationEvent) bool {
	if s.publisher == nil {
		return false
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamModeration, event); err != nil {
		log.Printf("[Moderation] Publish FAILED, handling inline: listing=%d err=%v", event.ListingID, err)
		return false
	}
	return true
}

// ToggleVIP flips the VIP flag of a listing and returns the updated listing.
func (s *ModerationService) ToggleVIP(ctx context.Context, listingID int64) (*model.Listing, error) {
	isVIP, err := s.listingRepo.ToggleVIP(ctx, listingID)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	log.Printf("[Moderation] Listing %d VIP=%t", listingID, isVIP)

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.NewListingVIPToggledEvent(listing))
	return listing, nil
}

func (s *ModerationService) invalidateStats(ctx context.Context) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Invalidate(ctx); err != nil {
		log.Printf("[Moderation] Stats cache invalidation failed: %v", err)
	}
}
