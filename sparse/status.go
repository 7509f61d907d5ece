package sparse

import (
	"errors"
	"fmt"
)

// Status is the outcome category of every library call
type Status int

const (
	StatusSuccess Status = iota
	StatusNotInitialized
	StatusInvalidHandle
	StatusInvalidPointer
	StatusInvalidValue
	StatusAllocFailed
	StatusInternalError
	StatusNotSupported
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusNotInitialized:
		return "NotInitialized"
	case StatusInvalidHandle:
		return "InvalidHandle"
	case StatusInvalidPointer:
		return "InvalidPointer"
	case StatusInvalidValue:
		return "InvalidValue"
	case StatusAllocFailed:
		return "AllocFailed"
	case StatusInternalError:
		return "InternalError"
	case StatusNotSupported:
		return "NotSupported"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Error makes a bare Status usable as an error target for errors.Is
func (s Status) Error() string {
	return "sparse status " + s.String()
}

// Error is returned by every failing library call
type Error struct {
	Op      string // Operation that failed
	Status  Status
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sparse %s error in %s: %s (caused by: %v)",
			e.Status, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("sparse %s error in %s: %s", e.Status, e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare Status target, so errors.Is(err, StatusInvalidValue) works
func (e *Error) Is(target error) bool {
	if s, ok := target.(Status); ok {
		return e.Status == s
	}
	return false
}

func newError(op string, status Status, format string, args ...interface{}) error {
	return &Error{
		Op:      op,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapError(op string, status Status, err error, format string, args ...interface{}) error {
	return &Error{
		Op:      op,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// StatusOf maps an error returned by this package to its Status.
// nil maps to StatusSuccess, foreign errors to StatusInternalError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return StatusInternalError
}
