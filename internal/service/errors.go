package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by every service. Handlers map them to HTTP statuses
// with errors.Is; the message of a classified error is safe to show a client.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type classifiedError struct {
	kind  error
	msg   string
	cause error
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() []error {
	errs := []error{e.kind}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func validationError(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func conflictError(cause error, format string, args ...interface{}) error {
	return &classifiedError{kind: ErrConflict, msg: fmt.Sprintf(format, args...), cause: cause}
}

// notFoundCause keeps the storage error reachable for logging.
func notFoundCause(cause error, format string, args ...interface{}) error {
	return &classifiedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...), cause: cause}
}
