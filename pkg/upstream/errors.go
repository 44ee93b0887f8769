package upstream

import (
	"errors"
	"fmt"
)

// ErrRetryExhausted is returned when all retry attempts are exhausted.
// It wraps the last typed failure, so errors.As still surfaces the
// upstream code to callers.
var ErrRetryExhausted = errors.New("upstream: retry attempts exhausted")

// Error is a typed upstream failure carrying the error code reported by
// the content-fetching service. The proxy maps the code onto the HTTP
// response status when it falls in the valid range.
type Error struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("upstream error (code %d): %s", e.Code, e.Message)
}

// permanentError marks a failure that must not be retried (4xx and
// request construction faults).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}
