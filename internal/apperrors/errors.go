package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the transport layer can map it to a status
// code without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code the kind maps to.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind and a single human readable message.
// No internal identifiers or wrapped causes are ever exposed to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports kind equality so sentinel errors below survive wrapping with
// fmt.Errorf("...: %w", err).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(msg string) *Error      { return &Error{Kind: KindBadRequest, Message: msg} }
func Unauthorized(msg string) *Error    { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func TooManyRequests(msg string) *Error { return &Error{Kind: KindTooManyRequests, Message: msg} }
func Internal(msg string) *Error        { return &Error{Kind: KindInternal, Message: msg} }

// KindOf extracts the kind from err. Anything not carrying an *Error is
// treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client visible message for err. Internal errors are
// collapsed into a generic message.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}

// Errors shared between repositories and services.
var (
	ErrEmailTaken      = Conflict("Email already in use")
	ErrUserNotFound    = NotFound("User not found")
	ErrSessionNotFound = Unauthorized("Session expired")
	ErrCodeNotFound    = NotFound("Invalid or expired verification code")
	ErrCategoryTaken   = Conflict("Category already exists")
	ErrTagTaken        = Conflict("Tag already exists")
	ErrListingNotFound = NotFound("Listing not found")
	ErrPostNotFound    = NotFound("Post not found")
	ErrRentalConflict  = Conflict("Equipment is already rented for these dates")
)
