// Package moderation holds the admin moderation table: the pending and all
// listing collections, the view mode, sort and pagination state, and the
// approve/reject/VIP actions that reload the collections after each write.
package moderation

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"sync"

	"photojay_admin/internal/gateway"
	"photojay_admin/internal/model"
	"photojay_admin/internal/stream"
)

// RejectModal is the staged state of the reject confirmation dialog.
type RejectModal struct {
	Open    bool
	Listing model.Listing
	Reason  string
}

// View is the moderation table state.
//
// The mutex is never held across a gateway call. Overlapping reloads are not
// sequenced: whichever response arrives last is what the view shows.
type View struct {
	gateway gateway.ModerationGateway
	logger  *log.Logger

	mu       sync.Mutex
	pending  []model.Listing
	all      []model.Listing
	stats    model.AdminStats
	state    model.ModerationViewState
	loading  bool
	reject   RejectModal
	selected *model.Listing

	revision *stream.Value[uint64]
}

// NewView creates a View showing pending listings, newest first.
// A nil logger uses log.Default().
func NewView(gw gateway.ModerationGateway, logger *log.Logger) *View {
	if logger == nil {
		logger = log.Default()
	}
	return &View{
		gateway:  gw,
		logger:   logger,
		state:    model.DefaultModerationViewState(),
		revision: stream.NewValue[uint64](0),
	}
}

// Subscribe is called with a new revision number after every state change.
func (v *View) Subscribe(fn func(revision uint64)) *stream.Subscription {
	return v.revision.Subscribe(fn)
}

func (v *View) changed() {
	v.revision.Update(func(n uint64) uint64 { return n + 1 })
}

// LoadAdminData fetches the stats and the active collection.
// Both are attempted; failures are logged and joined.
func (v *View) LoadAdminData(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()
	v.changed()

	var errs []error

	stats, err := v.gateway.Stats(ctx)
	v.mu.Lock()
	if err != nil {
		v.logger.Printf("[ModerationView] Load stats FAILED: %v", err)
		errs = append(errs, err)
	} else {
		v.stats = stats
	}
	v.loading = false
	v.mu.Unlock()
	v.changed()

	if err := v.loadListings(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Reload is LoadAdminData under the name the actions use.
func (v *View) Reload(ctx context.Context) error {
	return v.LoadAdminData(ctx)
}

// loadListings fetches the collection for the mode active at call time and
// stores it into that mode's slot, whatever the mode is when it returns.
func (v *View) loadListings(ctx context.Context) error {
	v.mu.Lock()
	mode := v.state.ViewMode
	v.mu.Unlock()

	var (
		listings []model.Listing
		err      error
	)
	if mode == model.ViewModeAll {
		listings, err = v.gateway.AllListings(ctx)
	} else {
		listings, err = v.gateway.PendingListings(ctx)
	}
	if err != nil {
		v.logger.Printf("[ModerationView] Load %s listings FAILED: %v", mode, err)
		return err
	}

	v.mu.Lock()
	if mode == model.ViewModeAll {
		v.all = slices.Clone(listings)
	} else {
		v.pending = slices.Clone(listings)
	}
	v.clampPageLocked()
	v.mu.Unlock()
	v.changed()

	return nil
}

// SwitchView changes the view mode and fetches that mode's collection.
// Sort and pagination carry over; the page is re-clamped.
func (v *View) SwitchView(ctx context.Context, mode model.ViewMode) error {
	if mode != model.ViewModePending && mode != model.ViewModeAll {
		return &model.ValidationError{Field: "viewMode", Message: "unknown view mode " + string(mode)}
	}

	v.mu.Lock()
	v.state.ViewMode = mode
	v.clampPageLocked()
	v.mu.Unlock()
	v.changed()

	return v.loadListings(ctx)
}

// State returns the view mode, sort and pagination parameters.
func (v *View) State() model.ModerationViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Stats returns the last loaded dashboard counters.
func (v *View) Stats() model.AdminStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

// Loading reports whether a stats load is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// TotalItems is the size of the active collection.
func (v *View) TotalItems() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.activeLocked())
}

// TotalPages is ceil(TotalItems / ItemsPerPage); zero for an empty collection.
func (v *View) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPagesLocked()
}

// Sorted returns the whole active collection in the current sort order.
func (v *View) Sorted() []model.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortedLocked()
}

// VisiblePage returns the current page of the sorted active collection.
// It is derived on every call.
func (v *View) VisiblePage() []model.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()

	sorted := v.sortedLocked()
	return paginate(sorted, v.state.CurrentPage, v.state.ItemsPerPage)
}

func (v *View) activeLocked() []model.Listing {
	if v.state.ViewMode == model.ViewModeAll {
		return v.all
	}
	return v.pending
}

func (v *View) totalPagesLocked() int {
	n := len(v.activeLocked())
	per := v.state.ItemsPerPage
	return (n + per - 1) / per
}

func (v *View) clampPageLocked() {
	last := max(1, v.totalPagesLocked())
	v.state.CurrentPage = min(max(1, v.state.CurrentPage), last)
}

func (v *View) sortedLocked() []model.Listing {
	sorted := slices.Clone(v.activeLocked())
	sortListings(sorted, v.state.SortField, v.state.SortOrder)
	return sorted
}

// sortListings orders listings in place. The sort is stable, so ties keep
// their fetched order in both directions.
func sortListings(listings []model.Listing, field model.SortField, order model.SortOrder) {
	cmp := compareBy(field)
	if cmp == nil {
		return
	}
	slices.SortStableFunc(listings, func(a, b model.Listing) int {
		c := cmp(a, b)
		if order == model.SortOrderDesc {
			return -c
		}
		return c
	})
}

func compareBy(field model.SortField) func(a, b model.Listing) int {
	switch field {
	case model.SortFieldTitle:
		return func(a, b model.Listing) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case model.SortFieldUserName:
		return func(a, b model.Listing) int {
			return strings.Compare(strings.ToLower(a.Owner.UserName), strings.ToLower(b.Owner.UserName))
		}
	case model.SortFieldCreatedAt:
		return func(a, b model.Listing) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case model.SortFieldStatus:
		return func(a, b model.Listing) int {
			return strings.Compare(string(a.Status), string(b.Status))
		}
	default:
		return nil
	}
}

// paginate returns the [(page-1)*per, page*per) window of listings.
func paginate(listings []model.Listing, page, per int) []model.Listing {
	start := (page - 1) * per
	if start < 0 || start >= len(listings) {
		return []model.Listing{}
	}
	end := min(start+per, len(listings))
	return listings[start:end]
}

// SortBy flips the order when field is already active, otherwise switches to
// field ascending. Either way the table goes back to page 1.
func (v *View) SortBy(field model.SortField) error {
	if compareBy(field) == nil {
		return model.ErrUnknownSortField
	}

	v.mu.Lock()
	if v.state.SortField == field {
		if v.state.SortOrder == model.SortOrderAsc {
			v.state.SortOrder = model.SortOrderDesc
		} else {
			v.state.SortOrder = model.SortOrderAsc
		}
	} else {
		v.state.SortField = field
		v.state.SortOrder = model.SortOrderAsc
	}
	v.state.CurrentPage = 1
	v.mu.Unlock()
	v.changed()

	return nil
}

// NextPage advances one page. It reports false and does nothing on the last page.
func (v *View) NextPage() bool {
	v.mu.Lock()
	if v.state.CurrentPage >= v.totalPagesLocked() {
		v.mu.Unlock()
		return false
	}
	v.state.CurrentPage++
	v.mu.Unlock()
	v.changed()
	return true
}

// PreviousPage goes back one page. It reports false and does nothing on page 1.
func (v *View) PreviousPage() bool {
	v.mu.Lock()
	if v.state.CurrentPage <= 1 {
		v.mu.Unlock()
		return false
	}
	v.state.CurrentPage--
	v.mu.Unlock()
	v.changed()
	return true
}

// ViewDetails selects a listing of the active collection for the detail panel.
func (v *View) ViewDetails(id int64) error {
	v.mu.Lock()
	l, ok := v.findLocked(id)
	if ok {
		v.selected = &l
	}
	v.mu.Unlock()

	if !ok {
		return model.ErrListingNotFound
	}
	v.changed()
	return nil
}

// Selected returns the listing open in the detail panel.
func (v *View) Selected() (model.Listing, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return model.Listing{}, false
	}
	return *v.selected, true
}

// CloseDetails closes the detail panel.
func (v *View) CloseDetails() {
	v.mu.Lock()
	v.selected = nil
	v.mu.Unlock()
	v.changed()
}

func (v *View) findLocked(id int64) (model.Listing, bool) {
	for _, l := range v.activeLocked() {
		if l.ID == id {
			return l, true
		}
	}
	return model.Listing{}, false
}

// Close drops everything the view holds. Subscribers see one last revision.
func (v *View) Close() {
	v.mu.Lock()
	v.pending = nil
	v.all = nil
	v.stats = model.AdminStats{}
	v.reject = RejectModal{}
	v.selected = nil
	v.state.CurrentPage = 1
	v.mu.Unlock()
	v.changed()
}
