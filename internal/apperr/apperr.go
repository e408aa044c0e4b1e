// Package apperr defines the kinded domain errors shared by every service package.
//
// Each package declares its own sentinels with New (for example book.ErrNotFound) and
// the HTTP layer maps the Kind to a status code. Two errors match under errors.Is when
// their codes are equal, so a sentinel still matches after WithMessage or WithCause.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindAlreadyExists
	KindLimitExceeded
	KindNoCopiesAvailable
	KindUnauthorized
	KindForbidden
)

var kindNames = map[Kind]string{
	KindInternal:          "INTERNAL",
	KindNotFound:          "NOT_FOUND",
	KindInvalidArgument:   "INVALID_ARGUMENT",
	KindAlreadyExists:     "ALREADY_EXISTS",
	KindLimitExceeded:     "LIMIT_EXCEEDED",
	KindNoCopiesAvailable: "NO_COPIES_AVAILABLE",
	KindUnauthorized:      "UNAUTHORIZED",
	KindForbidden:         "FORBIDDEN",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// HTTPStatus returns the status code a handler responds with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument, KindLimitExceeded, KindNoCopiesAvailable:
		return http.StatusBadRequest
	case KindAlreadyExists:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	kind    Kind
	code    string
	message string
	cause   error
}

func New(kind Kind, code, message string) *Error {
	return &Error{kind: kind, code: code, message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Kind() Kind      { return e.kind }
func (e *Error) Code() string    { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Unwrap() error   { return e.cause }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.code == t.code
}

// WithMessage returns a copy carrying a more specific client-facing message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{kind: e.kind, code: e.code, message: fmt.Sprintf(format, args...), cause: e.cause}
}

func (e *Error) WithCause(cause error) *Error {
	return &Error{kind: e.kind, code: e.code, message: e.message, cause: cause}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal when err carries none.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.kind
	}
	return KindInternal
}
