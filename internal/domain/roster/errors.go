package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound = errors.New("roster entry not found")
)
