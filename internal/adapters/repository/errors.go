package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrCorruptBlob = errors.New("stored blob is not valid JSON")
	ErrPersist     = errors.New("persist failed")
	ErrLoad        = errors.New("load failed")
	ErrClosed      = errors.New("store closed")
)
