package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure; the HTTP layer maps it to a status.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindDuplicate
	KindConflict
	KindExpired
	KindCapacity
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindConflict:
		return "conflict"
	case KindExpired:
		return "expired"
	case KindCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Error is the single error type returned for expected failures.
// Fields carries per-field messages for validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func Duplicate(format string, args ...interface{}) *Error {
	return newError(KindDuplicate, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

func Expired(format string, args ...interface{}) *Error {
	return newError(KindExpired, format, args...)
}

func Capacity(format string, args ...interface{}) *Error {
	return newError(KindCapacity, format, args...)
}

// Validation builds a validation error; fields may be nil.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf returns the kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
