package api

import (
	"errors"
	"fmt"
)

var (
	// ErrStateNotFound is returned by StateStore.Load when the user has no
	// conversation state row.
	ErrStateNotFound = errors.New("conversation state not found")

	// ErrUnknownState means the user's stored state id matches no
	// registered step, or the state has expired. The router treats both
	// the same way: prompt the user to start over, mutate nothing.
	ErrUnknownState = errors.New("unknown or expired conversation state")

	// ErrAgreementNotFound is returned by RecordStore lookups.
	ErrAgreementNotFound = errors.New("agreement not found")

	// ErrTooManyReminders is returned when a custom draft is already at
	// the reminder cap and another addition is attempted.
	ErrTooManyReminders = errors.New("reminder cap reached")
)

// ValidationError reports why a user's answer was not accepted. Reason is
// a localization key; Args are its formatting arguments.
//
// It is always recoverable: the router re-prompts with the reason and
// leaves all persisted state untouched.
type ValidationError struct {
	Reason string
	Args   []any
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// NewValidationError constructs a ValidationError with the given
// localization key and arguments.
func NewValidationError(reason string, args ...any) error {
	return &ValidationError{Reason: reason, Args: args}
}

// AsValidationError returns the ValidationError in err's chain, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// PersistenceError wraps a state-store or record-store failure. It is
// reported through the Observer and surfaced to the user as a generic
// failure; the conversation state is left untouched so the user can retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError wraps err with the failing operation name.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError reports whether err is (or wraps) a PersistenceError.
func IsPersistenceError(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
