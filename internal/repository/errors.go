// Package repository implements the credential store over MySQL.
// Sentinel errors let the service layer distinguish the failure
// cases it classifies (duplicate email, missing user, unusable
// refresh token) from genuine store failures.
package repository

import "errors"

// ErrEmailExists is returned when an insert or email change hits
// the unique index on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a point lookup matches no user.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when no usable refresh token row
// matches: unknown id, revoked, or past expiry. Callers cannot
// tell these apart on purpose.
var ErrTokenNotFound = errors.New("refresh token not found")
