package model

import (
	"errors"
	"fmt"
)

// Error codes returned in API error bodies.
const (
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeTokenInvalid  = "TOKEN_INVALID"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeReasonMissing = "REASON_REQUIRED"
)

var (
	// ErrListingNotFound is returned when a listing id is unknown.
	ErrListingNotFound = errors.New("listing not found")

	// ErrNotificationNotFound is returned when a notification id is unknown for the user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidStatus is returned when a moderation decision is not APPROVED or REJECTED.
	ErrInvalidStatus = errors.New("invalid moderation status")
)

// ValidationError marks input that was rejected client-side before any call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	// ErrEmptyRejectReason blocks a rejection whose trimmed reason is empty.
	ErrEmptyRejectReason = &ValidationError{Field: "reason", Message: "rejection reason is required"}

	// ErrNoListingStaged is returned when a reject is confirmed without an open reject modal.
	ErrNoListingStaged = &ValidationError{Field: "listing", Message: "no listing staged for rejection"}

	// ErrListingNotPending blocks rejecting a listing that already has a decision.
	ErrListingNotPending = &ValidationError{Field: "status", Message: "only pending listings can be rejected"}

	// ErrUnknownSortField is returned for a column the table cannot sort by.
	ErrUnknownSortField = &ValidationError{Field: "sort", Message: "unknown sort field"}
)

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransportError is a network, HTTP status, or decoding failure talking to the API.
type TransportError struct {
	Op         string // e.g. "GET /api/notifications"
	StatusCode int    // 0 when the request never got a response
	Code       string // API error code when the body carried one
	Message    string // response body or status text for non-2xx replies
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Code != "":
		return fmt.Sprintf("%s: status %d: %s: %s", e.Op, e.StatusCode, e.Code, e.Message)
	default:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
