package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"photojay_admin/internal/cache"
	"photojay_admin/internal/model"
	"photojay_admin/internal/queue"
)

// NotificationCreator defines the interface for creating notifications.
// This allows the worker to notify owners without depending on the service directly.
type NotificationCreator interface {
	Notify(ctx context.Context, userID int64, kind model.NotificationKind, message string)
}

// Handler processes moderation events from the queue.
type Handler struct {
	notifCreator NotificationCreator
	statsCache   cache.StatsCache // Can be nil if stats are not cached
}

// NewHandler creates a new event handler.
func NewHandler(notifCreator NotificationCreator, statsCache cache.StatsCache) *Handler {
	return &Handler{
		notifCreator: notifCreator,
		statsCache:   statsCache,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ModerationEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventListingModerated:
		err = h.handleListingModerated(ctx, event)
	case queue.EventListingVIPToggled:
		err = h.invalidateStats(ctx)
	default:
		log.Printf("[Handler] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Handler] %s FAILED: listing=%d err=%v", event.Type, event.ListingID, err)
		return err
	}

	log.Printf("[Handler] %s OK: listing=%d duration=%v", event.Type, event.ListingID, time.Since(startTime))
	return nil
}

// handleListingModerated tells the owner about the decision.
func (h *Handler) handleListingModerated(ctx context.Context, event queue.ModerationEvent) error {
	if event.OwnerID <= 0 {
		return fmt.Errorf("listing %d has no owner", event.ListingID)
	}
	if event.Status != model.ListingStatusApproved && event.Status != model.ListingStatusRejected {
		return fmt.Errorf("listing %d: %w: %q", event.ListingID, model.ErrInvalidStatus, event.Status)
	}

	h.notifCreator.Notify(ctx, event.OwnerID, model.NotificationKindGeneral, event.NotificationMessage())
	return h.invalidateStats(ctx)
}

func (h *Handler) invalidateStats(ctx context.Context) error {
	if h.statsCache == nil {
		return nil
	}
	return h.statsCache.Invalidate(ctx)
}
