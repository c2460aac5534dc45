// Package apperror defines the request-level error taxonomy of the service.
// Every error here is recovered at the request boundary; none is process-fatal.
package apperror

import "errors"

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified, client-safe error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches another *Error of the same kind. A target without a message matches
// any message of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }

// Kind-only sentinels, for errors.Is checks on the whole class.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

var (
	ErrPasswordTooShort   = Validation("password must be at least 8 characters long")
	ErrPasswordTooLong    = Validation("password must be at most 72 bytes long")
	ErrHandleRequired     = Validation("handle is required")
	ErrHandleTaken        = Conflict("handle is unavailable")
	ErrMissingToken       = Auth("missing access token")
	ErrInvalidToken       = Auth("invalid token")
	ErrTokenExpired       = Auth("token expired")
	ErrInvalidCredentials = Auth("invalid handle or password")
	ErrTaskNotFound       = NotFound("task not found")
)

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
