package service

import (
	"errors"
	"fmt"
)

// ErrAlreadyPaid reports that a successful ledger entry already exists for
// the member and fee item. The store-level uniqueness guard raises it even
// when two sessions race.
var ErrAlreadyPaid = errors.New("fee item already paid")

// ValidationError marks a precondition failure: missing member, unknown fee
// item, bad input. Callers reduce it to a user-facing retry prompt.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// GatewayError covers gateway-side failures and non-success outcomes. It is
// not a severe class: the normal handling is to reset the selection and tell
// the member nothing was charged or recorded.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// RecordingError is the severe class: the gateway captured the payment but
// the ledger append failed. It carries the gateway reference so the member
// can quote it to support; the charge is never retried automatically.
type RecordingError struct {
	Reference string
	Err       error
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("payment %s was captured but could not be recorded: %v; contact support with this reference", e.Reference, e.Err)
}

func (e *RecordingError) Unwrap() error {
	return e.Err
}
