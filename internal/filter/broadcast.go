// Package filter holds the product-filter state shared by otherwise unrelated
// widgets (category picker, product list). A single Broadcast is created at
// application start and handed to every consumer that needs it.
package filter

import (
	"photojay_admin/internal/model"
	"photojay_admin/internal/stream"
)

// Broadcast multicasts the selected category and the show-all toggle.
// Every setter notifies current subscribers synchronously before returning.
type Broadcast struct {
	selectedCategoryID *stream.Value[*int64]
	showAllProducts    *stream.Value[bool]
}

// New creates a Broadcast with no category selected and show-all off.
func New() *Broadcast {
	return &Broadcast{
		selectedCategoryID: stream.NewValue[*int64](nil),
		showAllProducts:    stream.NewValue(false),
	}
}

// SetSelectedCategoryID replaces the selected category; nil means none.
func (b *Broadcast) SetSelectedCategoryID(id *int64) {
	b.selectedCategoryID.Set(copyID(id))
}

// SelectedCategoryID returns the selected category or nil.
func (b *Broadcast) SelectedCategoryID() *int64 {
	return copyID(b.selectedCategoryID.Get())
}

// SetShowAllProducts sets whether every product is shown or only the user's own.
func (b *Broadcast) SetShowAllProducts(v bool) {
	b.showAllProducts.Set(v)
}

// ToggleShowAllProducts flips the show-all flag.
func (b *Broadcast) ToggleShowAllProducts() {
	b.showAllProducts.Update(func(v bool) bool { return !v })
}

// ShowAllProducts reports whether every product is shown.
func (b *Broadcast) ShowAllProducts() bool {
	return b.showAllProducts.Get()
}

// State returns both values as one snapshot.
func (b *Broadcast) State() model.FilterState {
	return model.FilterState{
		SelectedCategoryID: b.SelectedCategoryID(),
		ShowAllProducts:    b.ShowAllProducts(),
	}
}

// SubscribeSelectedCategoryID replays the current category to fn, then every change.
func (b *Broadcast) SubscribeSelectedCategoryID(fn func(id *int64)) *stream.Subscription {
	return b.selectedCategoryID.Subscribe(func(id *int64) { fn(copyID(id)) })
}

// SubscribeShowAllProducts replays the current toggle to fn, then every change.
func (b *Broadcast) SubscribeShowAllProducts(fn func(v bool)) *stream.Subscription {
	return b.showAllProducts.Subscribe(fn)
}

// copyID keeps callers from mutating the shared pointer.
func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
