// Package vserr defines the failure kinds surfaced by value set operations.
// Callers branch on Kind rather than parsing message text.
package vserr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindNotFound               Kind = "not_found"
	KindDuplicateKey           Kind = "duplicate_key"
	KindDuplicateItemCode      Kind = "duplicate_item_code"
	KindInvalidAggregate       Kind = "invalid_aggregate"
	KindCapacityExceeded       Kind = "capacity_exceeded"
	KindAlreadyArchived        Kind = "already_archived"
	KindNotArchived            Kind = "not_archived"
	KindInvalidQuery           Kind = "invalid_query"
	KindConcurrentModification Kind = "concurrent_modification"
	KindNotImplemented         Kind = "not_implemented"
)

type Error struct {
	Kind       Kind
	Message    string
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		if len(e.Violations) > 0 {
			return e.Message + ": " + strings.Join(e.Violations, "; ")
		}
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Invalid builds a KindInvalidAggregate error carrying the itemized
// violation list produced by the aggregate validator.
func Invalid(violations []string) *Error {
	return &Error{
		Kind:       KindInvalidAggregate,
		Message:    "value set failed validation",
		Violations: violations,
	}
}

// KindOf returns the Kind carried by err, or "" when err is not a vserr
// error (store infrastructure failures pass through untyped).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
