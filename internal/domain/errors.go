package domain

import "errors"

var (
	// ErrForbidden means the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the targeted slot or booking is not in the state the
	// operation requires, or the caller already holds an active booking.
	ErrConflict = errors.New("state conflict")
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")
)
