package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when an entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks validation failures of entities and service inputs
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists is returned when a uniqueness rule would be broken
	ErrAlreadyExists = errors.New("already exists")

	// ErrQuoteUnavailable is returned when no market quote can be obtained for a symbol.
	// Callers must surface it instead of silently keeping a stale price.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)
