// Package common contains shared constants and sentinel errors used across
// dashctl components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session / auth flow.
	ErrNotSignedIn  = errors.New("not signed in")
	ErrUnauthorized = errors.New("unauthorized")

	// Resource-level errors.
	ErrNotFound = errors.New("not found")

	// Sync link validation errors, raised before any network call.
	ErrLinkExists  = errors.New("link already exists")
	ErrSameAccount = errors.New("cannot link an account to itself")
)
