package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a business error so the HTTP layer can map it to a status
// code without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindBusinessRule
)

// Error is a tagged business error raised by the service layer.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// E builds a tagged error with a formatted message.
func E(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("purchase", 42).
func NotFound(entity string, id interface{}) *Error {
	return E(KindNotFound, "%s with id %v not found", entity, id)
}

// Conflict reports a unique-constraint style collision.
func Conflict(format string, args ...interface{}) *Error {
	return E(KindConflict, format, args...)
}

// Validation reports malformed or out-of-range input.
func Validation(format string, args ...interface{}) *Error {
	return E(KindValidation, format, args...)
}

// BusinessRule reports an invariant violation (inactive supplier, oversell,
// paid-invoice mutation, dependent sales on delete).
func BusinessRule(format string, args ...interface{}) *Error {
	return E(KindBusinessRule, format, args...)
}

// KindOf extracts the Kind from an error chain, KindUnknown if untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
