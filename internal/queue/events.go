package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"photojay_admin/internal/model"
)

// Event types for the moderation stream
const (
	EventListingModerated  = "listing_moderated"
	EventListingVIPToggled = "listing_vip_toggled"
)

// Stream names
const (
	StreamModeration = "stream:moderation"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotify = "notification_workers"
)

// ModerationEvent is published after every admin write to a listing.
type ModerationEvent struct {
	Type      string `json:"type"`      // EventListingModerated, EventListingVIPToggled
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	ListingID int64  `json:"listing_id"`
	OwnerID   int64  `json:"owner_id"`
	Title     string `json:"title,omitempty"`

	// Moderation decision (ListingModerated only)
	Status model.ListingStatus `json:"status,omitempty"`
	Reason string              `json:"reason,omitempty"`

	// VIP flag after the toggle (ListingVIPToggled only)
	IsVIP bool `json:"is_vip,omitempty"`
}

// NewListingModeratedEvent creates an event for an approval or rejection.
// Worker will notify the owner and invalidate the admin stats.
func NewListingModeratedEvent(listing *model.Listing, reason string) ModerationEvent {
	return ModerationEvent{
		Type:      EventListingModerated,
		Timestamp: time.Now().Unix(),
		ListingID: listing.ID,
		OwnerID:   listing.Owner.ID,
		Title:     listing.Title,
		Status:    listing.Status,
		Reason:    reason,
	}
}

// NewListingVIPToggledEvent creates an event for a VIP flip.
// Worker will invalidate the admin stats.
func NewListingVIPToggledEvent(listing *model.Listing) ModerationEvent {
	return ModerationEvent{
		Type:      EventListingVIPToggled,
		Timestamp: time.Now().Unix(),
		ListingID: listing.ID,
		OwnerID:   listing.Owner.ID,
		Title:     listing.Title,
		IsVIP:     listing.IsVIP,
	}
}

// NotificationMessage is the text the owner receives for a moderation decision.
func (e ModerationEvent) NotificationMessage() string {
	if e.Status == model.ListingStatusApproved {
		return fmt.Sprintf("Your listing %q has been approved.", e.Title)
	}
	return fmt.Sprintf("Your listing %q has been rejected: %s", e.Title, e.Reason)
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ModerationEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseModerationEvent parses a ModerationEvent from Redis stream message values.
func ParseModerationEvent(values map[string]interface{}) (ModerationEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ModerationEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ModerationEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ModerationEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
