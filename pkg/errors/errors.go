package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the registration workflow.
var (
	// ErrDataFormat halts the data view: a required column is missing or the
	// reference table cannot be parsed. Nothing downstream is trustworthy.
	ErrDataFormat = New("DATA_FORMAT", http.StatusUnprocessableEntity, "reference data format invalid")

	// Valid terminal outcomes, surfaced as informational responses.
	ErrNoEligibleCourses  = New("NO_ELIGIBLE_COURSES", http.StatusNotFound, "no courses associated with this instructor")
	ErrNoInstancesForYear = New("NO_INSTANCES_FOR_YEAR", http.StatusNotFound, "no instances scheduled for the requested year")

	// Enrollment rejections.
	ErrCourseNotAuthorized = New("COURSE_NOT_AUTHORIZED", http.StatusForbidden, "instructor is not authorized for this course")
	ErrInstanceNotFound    = New("INSTANCE_NOT_FOUND", http.StatusNotFound, "course instance not found for the target year")
	ErrCapacityExceeded    = New("CAPACITY_EXCEEDED", http.StatusConflict, "instance capacity is full")
	ErrDuplicateEnrollment = New("DUPLICATE_ENROLLMENT", http.StatusConflict, "instructor already enrolled in this course")

	// ErrPersistence covers a store write failing after validation passed. The
	// attempt is safe to retry in full since no partial record exists.
	ErrPersistence = New("PERSISTENCE_ERROR", http.StatusInternalServerError, "failed to persist enrollment")

	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrCacheMiss signals an absent cache entry; never surfaced to clients.
	ErrCacheMiss = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
