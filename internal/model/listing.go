package model

import (
	"strings"
	"time"
)

// ListingStatus is the server-authoritative moderation state of a listing.
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "PENDING"
	ListingStatusApproved ListingStatus = "APPROVED"
	ListingStatusRejected ListingStatus = "REJECTED"
)

// ParseListingStatus normalizes a wire value into a known status.
func ParseListingStatus(raw string) (ListingStatus, bool) {
	switch s := ListingStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case ListingStatusPending, ListingStatusApproved, ListingStatusRejected:
		return s, true
	default:
		return "", false
	}
}

// Owner is the submitting user as embedded in a listing payload.
type Owner struct {
	ID       int64  `json:"id,omitempty"`
	UserName string `json:"userName"`
}

// Listing represents a user-submitted item subject to moderation.
// ID is the only identity key; a collection never holds two copies of one ID.
type Listing struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ListingStatus `json:"status"`
	IsVIP       bool          `json:"isVip"`
	Owner       Owner         `json:"user"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ModerateRequest is the body of PUT /api/admin/products/{id}/moderate.
type ModerateRequest struct {
	Status ListingStatus `json:"status"`
	Reason string        `json:"reason"`
}

// AdminStats holds the dashboard counters shown above the moderation table.
type AdminStats struct {
	TotalProducts    int `json:"totalProducts"`
	PendingProducts  int `json:"pendingProducts"`
	ApprovedProducts int `json:"approvedProducts"`
	RejectedProducts int `json:"rejectedProducts"`
	VIPProducts      int `json:"vipProducts"`
	TotalUsers       int `json:"totalUsers"`
}

// Envelope is the {"data": T} wrapper used by the admin API.
type Envelope[T any] struct {
	Data T `json:"data"`
}
