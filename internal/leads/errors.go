package leads

import "errors"

var (
	// ErrDuplicateEmail is returned when the store rejects an insert because
	// a lead with the same email already exists.
	ErrDuplicateEmail = errors.New("lead email already registered")

	// ErrStoreUnavailable is returned when the remote store cannot be reached.
	ErrStoreUnavailable = errors.New("lead store unavailable")
)
