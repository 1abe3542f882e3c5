package stats

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrUnknownSource = errors.New("unknown stats source")
)
