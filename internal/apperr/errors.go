// Package apperr defines the error taxonomy shared by services,
// middleware and handlers. Each sentinel kind carries the HTTP
// status it maps to, so the boundary can translate any error with
// a single type check. Errors that do not belong to the taxonomy
// are wrapped as Internal before they reach the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a classified application error. Kind sentinels compare
// with errors.Is through the Unwrap chain, so services can return
// e.g. apperr.ErrInvalidCredentials directly or wrap it with extra
// context.
type Error struct {
	Kind    error  // one of the sentinel kinds below
	Status  int    // HTTP status the boundary responds with
	Message string // safe, client-facing message
	Err     error  // underlying cause, never shown in prod
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Cause returns the wrapped underlying error, if any.
func (e *Error) Cause() error { return e.Err }

// Sentinel kinds. These line up with the taxonomy handled at the
// HTTP boundary; anything else is treated as ErrInternal.
var (
	ErrValidation            = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountInactive       = errors.New("account inactive")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInternal              = errors.New("internal error")
)

// New builds a classified error for the given kind. The message is
// what the client will see for non-internal kinds.
func New(kind error, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// Validation flags malformed input (400).
func Validation(message string) *Error {
	return New(ErrValidation, http.StatusBadRequest, message)
}

// InvalidCredentials is returned for both unknown emails and wrong
// passwords so the response never reveals which one it was.
func InvalidCredentials() *Error {
	return New(ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
}

// AccountInactive rejects logins on deactivated accounts (403).
func AccountInactive() *Error {
	return New(ErrAccountInactive, http.StatusForbidden, "account is inactive")
}

// InvalidOrExpiredToken rejects refresh tokens that are unknown,
// revoked or past expiry (401).
func InvalidOrExpiredToken() *Error {
	return New(ErrInvalidOrExpiredToken, http.StatusUnauthorized, "invalid or expired refresh token")
}

// NotFound signals a missing resource (404).
func NotFound(message string) *Error {
	return New(ErrNotFound, http.StatusNotFound, message)
}

// Conflict signals duplicate state, e.g. an email already in use (409).
func Conflict(message string) *Error {
	return New(ErrConflict, http.StatusConflict, message)
}

// Forbidden signals an authenticated caller without the required role (403).
func Forbidden(message string) *Error {
	return New(ErrForbidden, http.StatusForbidden, message)
}

// Unauthorized signals a missing or unverifiable access token (401).
func Unauthorized(message string) *Error {
	return New(ErrUnauthorized, http.StatusUnauthorized, message)
}

// Internal wraps an unexpected failure (500). The cause is kept for
// logging and for dev-mode responses; the message stays generic.
func Internal(message string, err error) *Error {
	return &Error{Kind: ErrInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// From classifies an arbitrary error. Already-classified errors
// pass through unchanged; everything else becomes Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal server error", err)
}
