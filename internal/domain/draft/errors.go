package draft

import (
	"errors"
	"strings"
)

// Sentinel kinds for draft errors.
var (
	ErrUnknownField = errors.New("unknown draft field")
	ErrInvalidField = errors.New("invalid draft field value")
	ErrValidation   = errors.New("draft validation failed")
)

// ValidationError lists the required fields that were empty at commit time.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
