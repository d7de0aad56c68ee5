package sheet

import "errors"

var (
	// ErrMalformedSheet is returned when a key/value or name/phone block is missing its partner
	// column, or when a group's metadata cannot be coerced into a request.
	ErrMalformedSheet = errors.New("malformed sheet")

	// ErrUnresolvedPlaceholder is returned when a template references a field that is not set.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

	// ErrUnknownAdmin is returned when the admin is given by name and no contact has that name.
	ErrUnknownAdmin = errors.New("unknown admin")

	// ErrInvalidContact is returned when a contact written inline is not "Name:Phone".
	ErrInvalidContact = errors.New("contact must be written as name:phone")

	// ErrSourceUnavailable is returned by grid sources that cannot reach the sheet or range.
	ErrSourceUnavailable = errors.New("grid source unavailable")
)
