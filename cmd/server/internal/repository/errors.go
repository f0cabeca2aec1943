package repository

import "errors"

// Domain error taxonomy. Handlers map these to HTTP outcomes with
// errors.Is; everything unknown is treated as an internal error.
var (
	// ErrNotFound means no roadmap exists under the requested id.
	ErrNotFound = errors.New("roadmap not found")

	// ErrDuplicateID means an identifier collision survived the bounded
	// suffix retry during create.
	ErrDuplicateID = errors.New("roadmap identifier collision")

	// ErrValidation means the payload shape is unacceptable.
	ErrValidation = errors.New("invalid roadmap payload")

	// ErrStoreUnavailable means the document store is unreachable or
	// failing. Cache failures never produce it; they fail open.
	ErrStoreUnavailable = errors.New("document store unavailable")
)
