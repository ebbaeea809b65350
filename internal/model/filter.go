package model

// FilterState is the shared product-filter view state.
// It has no identity and is only ever replaced whole.
type FilterState struct {
	SelectedCategoryID *int64
	ShowAllProducts    bool
}
