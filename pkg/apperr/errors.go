// Package apperr defines the error taxonomy shared by all services.
//
// Core operations return a single classified error; the HTTP layer maps the
// kind to a status code at the boundary. Internal failures (store errors,
// unexpected conditions) are classified as Internal and never surfaced
// verbatim to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error independently of any transport status code.
type Kind int

const (
	// KindInternal covers store failures and unexpected conditions.
	KindInternal Kind = iota
	// KindValidation covers malformed identifiers or payloads.
	KindValidation
	// KindUnauthorized means the caller's identity could not be resolved.
	KindUnauthorized
	// KindForbidden means the identity resolved but the role is insufficient.
	KindForbidden
	// KindNotFound means the entity is absent, or absent for this user.
	KindNotFound
	// KindConflict means a duplicate-state violation (unique field, re-add).
	KindConflict
	// KindInvalidOperation means a structurally disallowed action.
	KindInvalidOperation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidOperation:
		return "invalid_operation"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a caller-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted caller-safe message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error while keeping it on the chain.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Internal wraps an unexpected failure. The message is caller-safe; the
// cause stays on the chain for logging.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "server error", Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage returns the caller-safe message of err: the classified
// message when one exists, a generic one otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "server error"
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return IsKind(err, KindForbidden) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }
