package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks failures of the underlying store: connection loss,
// query errors, broken transactions. Callers report a generic failure and
// move on; there are no retries.
var ErrUnavailable = errors.New("storage unavailable")

// OpError records the repository operation that failed.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return fmt.Sprintf("%s: %s: %v", e.Op, ErrUnavailable, e.Err) }

// Unwrap makes both ErrUnavailable and the driver error visible to errors.Is/As.
func (e *OpError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
