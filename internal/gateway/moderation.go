package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"photojay_admin/internal/model"
)

// ModerationGateway is the admin listings API.
type ModerationGateway interface {
	Stats(ctx context.Context) (model.AdminStats, error)
	PendingListings(ctx context.Context) ([]model.Listing, error)
	AllListings(ctx context.Context) ([]model.Listing, error)
	Moderate(ctx context.Context, id int64, req model.ModerateRequest) error
	ToggleVIP(ctx context.Context, id int64) error
}

var _ ModerationGateway = (*Client)(nil)

const (
	opStats           = "GET /api/admin/stats"
	opPendingListings = "GET /api/admin/products/pending"
	opAllListings     = "GET /api/admin/products"
	opModerate        = "PUT /api/admin/products/{id}/moderate"
	opToggleVIP       = "PUT /api/admin/products/{id}/toggle-vip"
)

// Stats fetches the dashboard counters.
func (c *Client) Stats(ctx context.Context) (model.AdminStats, error) {
	body, err := c.do(ctx, opStats, http.MethodGet, "/api/admin/stats", nil)
	if err != nil {
		return model.AdminStats{}, err
	}

	var env model.Envelope[model.AdminStats]
	if err := c.decode(opStats, body, &env); err != nil {
		return model.AdminStats{}, err
	}
	return env.Data, nil
}

// PendingListings fetches every listing awaiting moderation.
func (c *Client) PendingListings(ctx context.Context) ([]model.Listing, error) {
	return c.listings(ctx, opPendingListings, "/api/admin/products/pending")
}

// AllListings fetches every listing regardless of status.
func (c *Client) AllListings(ctx context.Context) ([]model.Listing, error) {
	return c.listings(ctx, opAllListings, "/api/admin/products")
}

func (c *Client) listings(ctx context.Context, op, path string) ([]model.Listing, error) {
	body, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var env model.Envelope[[]json.RawMessage]
	if err := c.decode(op, body, &env); err != nil {
		return nil, err
	}

	listings, problems := convertRecords(env.Data, listingRecord.toModel, func(l model.Listing) int64 { return l.ID })
	c.reportDropped(op, problems)
	return listings, nil
}

// Moderate submits an approve or reject decision for a listing.
func (c *Client) Moderate(ctx context.Context, id int64, req model.ModerateRequest) error {
	_, err := c.do(ctx, opModerate, http.MethodPut, fmt.Sprintf("/api/admin/products/%d/moderate", id), req)
	return err
}

// ToggleVIP flips the VIP flag of a listing.
func (c *Client) ToggleVIP(ctx context.Context, id int64) error {
	_, err := c.do(ctx, opToggleVIP, http.MethodPut, fmt.Sprintf("/api/admin/products/%d/toggle-vip", id), nil)
	return err
}
