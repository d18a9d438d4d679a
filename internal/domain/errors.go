package domain

import "errors"

// Domain errors
var (
	// Event errors
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrInvalidStatus = errors.New("invalid event status")

	// Venue errors
	ErrVenueNotFound = errors.New("venue not found")
	ErrInvalidVenue  = errors.New("invalid venue")
	ErrNotVenueOwner = errors.New("not the venue owner")

	// Analytics errors
	ErrInvalidAnalyticsEvent = errors.New("invalid analytics event")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrVenueNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidVenue)
}
