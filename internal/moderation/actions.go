package moderation

import (
	"context"
	"strings"

	"photojay_admin/internal/model"
)

// Approve approves a listing, then reloads stats and the active collection.
// Only a failed approval is returned; reload failures are logged.
func (v *View) Approve(ctx context.Context, id int64) error {
	req := model.ModerateRequest{Status: model.ListingStatusApproved, Reason: ""}
	if err := v.gateway.Moderate(ctx, id, req); err != nil {
		v.logger.Printf("[ModerationView] Approve FAILED: id=%d err=%v", id, err)
		return err
	}

	v.logger.Printf("[ModerationView] Approved listing %d", id)
	_ = v.Reload(ctx) // logged inside
	return nil
}

// OpenReject stages a pending listing for rejection and opens the reject
// dialog with an empty reason. In the all view a listing still PENDING there
// may be staged too; decided listings are refused.
func (v *View) OpenReject(id int64) error {
	v.mu.Lock()
	l, err := v.rejectableLocked(id)
	if err == nil {
		v.reject = RejectModal{Open: true, Listing: l}
	}
	v.mu.Unlock()

	if err != nil {
		return err
	}
	v.changed()
	return nil
}

func (v *View) rejectableLocked(id int64) (model.Listing, error) {
	for _, l := range v.pending {
		if l.ID == id {
			return l, nil
		}
	}
	for _, l := range v.all {
		if l.ID != id {
			continue
		}
		if l.Status != model.ListingStatusPending {
			return model.Listing{}, model.ErrListingNotPending
		}
		return l, nil
	}
	return model.Listing{}, model.ErrListingNotFound
}

// SetRejectReason updates the staged reason as typed.
func (v *View) SetRejectReason(reason string) {
	v.mu.Lock()
	v.reject.Reason = reason
	v.mu.Unlock()
	v.changed()
}

// RejectModal returns the reject dialog state.
func (v *View) RejectModal() RejectModal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reject
}

// ConfirmReject sends the staged rejection with the trimmed reason. Nothing is
// sent when no listing is staged or the reason is blank. On success the view
// reloads and the dialog closes; on failure the dialog stays open.
func (v *View) ConfirmReject(ctx context.Context) error {
	v.mu.Lock()
	modal := v.reject
	v.mu.Unlock()

	if !modal.Open {
		return model.ErrNoListingStaged
	}
	reason := strings.TrimSpace(modal.Reason)
	if reason == "" {
		return model.ErrEmptyRejectReason
	}

	id := modal.Listing.ID
	req := model.ModerateRequest{Status: model.ListingStatusRejected, Reason: reason}
	if err := v.gateway.Moderate(ctx, id, req); err != nil {
		v.logger.Printf("[ModerationView] Reject FAILED: id=%d err=%v", id, err)
		return err
	}

	v.logger.Printf("[ModerationView] Rejected listing %d", id)
	_ = v.Reload(ctx) // logged inside

	v.mu.Lock()
	// Leave a dialog that was reopened for another listing meanwhile.
	if v.reject.Open && v.reject.Listing.ID == id {
		v.reject = RejectModal{}
	}
	v.mu.Unlock()
	v.changed()

	return nil
}

// CancelReject closes the reject dialog without any call.
func (v *View) CancelReject() {
	v.mu.Lock()
	v.reject = RejectModal{}
	v.mu.Unlock()
	v.changed()
}

// Reject runs the whole reject flow for one listing.
func (v *View) Reject(ctx context.Context, id int64, reason string) error {
	if err := v.OpenReject(id); err != nil {
		return err
	}
	v.SetRejectReason(reason)
	return v.ConfirmReject(ctx)
}

// ToggleVIP flips a listing's VIP flag, then reloads.
func (v *View) ToggleVIP(ctx context.Context, id int64) error {
	if err := v.gateway.ToggleVIP(ctx, id); err != nil {
		v.logger.Printf("[ModerationView] ToggleVIP FAILED: id=%d err=%v", id, err)
		return err
	}

	v.logger.Printf("[ModerationView] Toggled VIP on listing %d", id)
	_ = v.Reload(ctx) // logged inside
	return nil
}
