package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"photojay_admin/internal/httputil"
	"photojay_admin/internal/model"
	"photojay_admin/internal/service"
)

type AdminHandler struct {
	moderationService *service.ModerationService
}

func NewAdminHandler(moderationService *service.ModerationService) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
	}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.moderationService.GetStats(r.Context())
	if err != nil {
		log.Printf("[ERROR] Admin stats handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get stats")
		return
	}

	httputil.WriteData(w, http.StatusOK, stats)
}

// Pending handles GET /api/admin/products/pending
func (h *AdminHandler) Pending(w http.ResponseWriter, r *http.Request) {
	listings, err := h.moderationService.GetPendingListings(r.Context())
	if err != nil {
		log.Printf("[ERROR] Pending listings handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get pending products")
		return
	}

	httputil.WriteData(w, http.StatusOK, listings)
}

// All handles GET /api/admin/products
func (h *AdminHandler) All(w http.ResponseWriter, r *http.Request) {
	listings, err := h.moderationService.GetAllListings(r.Context())
	if err != nil {
		log.Printf("[ERROR] All listings handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to get products")
		return
	}

	httputil.WriteData(w, http.StatusOK, listings)
}

// Moderate handles PUT /api/admin/products/:id/moderate
// Approves or rejects a listing; a rejection needs a reason.
func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	var req model.ModerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	listing, err := h.moderationService.Moderate(r.Context(), listingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidStatus):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidStatus, "status must be APPROVED or REJECTED")
		case errors.Is(err, model.ErrEmptyRejectReason):
			httputil.WriteBadRequestWithCode(w, model.CodeReasonMissing, "reason is required when rejecting")
		case errors.Is(err, model.ErrListingNotFound):
			httputil.WriteNotFound(w, "Product not found")
		default:
			log.Printf("[ERROR] Moderate handler: listing=%d err=%v", listingID, err)
			httputil.WriteInternalError(w, "Failed to moderate product")
		}
		return
	}

	httputil.WriteData(w, http.StatusOK, listing)
}

// ToggleVIP handles PUT /api/admin/products/:id/toggle-vip
func (h *AdminHandler) ToggleVIP(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseListingID(w, r)
	if !ok {
		return
	}

	listing, err := h.moderationService.ToggleVIP(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, model.ErrListingNotFound) {
			httputil.WriteNotFound(w, "Product not found")
			return
		}
		log.Printf("[ERROR] Toggle VIP handler: listing=%d err=%v", listingID, err)
		httputil.WriteInternalError(w, "Failed to toggle VIP")
		return
	}

	httputil.WriteData(w, http.StatusOK, listing)
}

func parseListingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteBadRequest(w, "Invalid product ID")
		return 0, false
	}
	return id, true
}
