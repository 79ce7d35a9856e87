package services

import "errors"

// Error taxonomy for store operations. Handlers map these onto HTTP status
// codes; everything else is treated as an internal error.
var (
	// ErrUnauthenticated means no valid caller identity was supplied.
	// Mutations reject with it; queries degrade to empty results instead.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotFound means the referenced entity id does not exist
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied means the entity exists but belongs to a different owner
	ErrAccessDenied = errors.New("access denied")

	// ErrValidation means a caller-supplied field failed basic shape checks
	ErrValidation = errors.New("validation failed")
)
