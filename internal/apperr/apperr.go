// Package apperr defines the error taxonomy shared by all services.
// Handlers map each kind to an HTTP status exactly once, so services never
// reference transport concerns.
package apperr

import "errors"

type Kind int

const (
	// KindValidation covers duplicate or malformed input; details are safe
	// to surface to the caller.
	KindValidation Kind = iota
	// KindAuthentication covers bad credentials and invalid, expired or
	// mismatched tokens. The message is deliberately generic so callers
	// cannot tell which check failed.
	KindAuthentication
	// KindNotFound covers lookups addressed to a non-existent entity.
	KindNotFound
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Wrap attaches an underlying cause without changing the surfaced message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the taxonomy kind of err, or false for unclassified errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err belongs to the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
