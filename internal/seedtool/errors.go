package seedtool

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped by StatusError.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrVerification is returned when the served statistics disagree
	// with the tally of the submitted plan.
	ErrVerification = errors.New("verification failed")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }
