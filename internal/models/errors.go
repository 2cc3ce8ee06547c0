package models

import "errors"

var (
	// ErrNotFound is returned when no record matches a lookup. Lookups are
	// owner-scoped, so a record owned by someone else reports the same error
	// as a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRole is returned when a role value is outside {Admin, User}.
	ErrInvalidRole = errors.New("invalid role")

	// ErrTitleRequired is returned when an item is created or updated with a
	// blank title.
	ErrTitleRequired = errors.New("title is required")
)
