package service

import "errors"

// Client-input error taxonomy. Every error here is terminal for the
// request: nothing in this layer is transient or retryable.
var (
	// ErrDuplicateRelationship is returned when a second Favorite,
	// ShoppingCart or Follow row is attempted for the same key pair.
	ErrDuplicateRelationship = errors.New("duplicate relationship")

	// ErrInvalidReference is returned when a submitted tag, ingredient
	// or user id does not resolve to an existing row.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidField is returned for out-of-range numeric fields,
	// malformed image payloads and duplicate ingredient ids within one
	// submission.
	ErrInvalidField = errors.New("invalid field")

	// ErrEmptyCollection is returned when a required non-empty tag or
	// ingredient list is missing.
	ErrEmptyCollection = errors.New("empty collection")

	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a user attempts to modify a recipe
	// they do not own.
	ErrForbidden = errors.New("forbidden")
)
