package store

import "errors"

// Typed rule-violation and lookup errors shared by stores and services.
// Services detect violations before any write; callers branch on these with
// errors.Is. The HTTP layer owns the translation to status codes, nothing
// here carries user-facing text.
var (
	// ErrDuplicateKey reports a uniqueness violation on a natural key
	// (vehicle chassis or plate, part manufacturer code).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidValue reports a domain constraint violation such as a
	// negative stock level or odometer.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotFound reports an id-based lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrMissingReference reports a required cross-entity link that was
	// not supplied at all.
	ErrMissingReference = errors.New("missing reference")

	// ErrReferenceNotFound reports a supplied cross-entity link that does
	// not resolve to a persisted entity.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrConflict reports concurrent-write contention after retry
	// exhaustion on the stock adjustment path.
	ErrConflict = errors.New("concurrent update conflict")
)
