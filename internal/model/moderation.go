package model

import "strings"

// ViewMode selects which listing collection the moderation table shows.
type ViewMode string

const (
	ViewModePending ViewMode = "pending"
	ViewModeAll     ViewMode = "all"
)

// SortField is a column the moderation table can be ordered by.
type SortField string

const (
	SortFieldTitle     SortField = "title"
	SortFieldUserName  SortField = "userName"
	SortFieldCreatedAt SortField = "createdAt"
	SortFieldStatus    SortField = "status"
)

// ParseSortField accepts a column name as typed by the user, in any case.
func ParseSortField(raw string) (SortField, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "title":
		return SortFieldTitle, true
	case "username", "user", "owner":
		return SortFieldUserName, true
	case "createdat", "created", "date":
		return SortFieldCreatedAt, true
	case "status":
		return SortFieldStatus, true
	default:
		return "", false
	}
}

// SortOrder is the direction of the table sort.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ItemsPerPage is the fixed moderation table page size.
const ItemsPerPage = 10

// ModerationViewState is the table's view mode, sort and pagination.
// CurrentPage stays within [1, max(1, TotalPages)].
type ModerationViewState struct {
	ViewMode     ViewMode
	SortField    SortField
	SortOrder    SortOrder
	CurrentPage  int
	ItemsPerPage int
}

// DefaultModerationViewState is the state a fresh moderation view starts in:
// pending listings, newest first, first page.
func DefaultModerationViewState() ModerationViewState {
	return ModerationViewState{
		ViewMode:     ViewModePending,
		SortField:    SortFieldCreatedAt,
		SortOrder:    SortOrderDesc,
		CurrentPage:  1,
		ItemsPerPage: ItemsPerPage,
	}
}
