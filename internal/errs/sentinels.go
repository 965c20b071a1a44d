// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials indicates a failed username/password check.
	// It is the same error for an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is the single opaque failure reported at the service
	// boundary for any authentication problem.
	ErrUnauthorized = errors.New("unauthorized")
)

// Token validation sentinels. The codec reports exactly one of these per
// failed validation; the service collapses all of them to ErrUnauthorized.
var (
	// ErrBadSignature indicates the token signature does not verify under the
	// current signing secret.
	ErrBadSignature = errors.New("bad token signature")

	// ErrExpired indicates a correctly signed token whose expiry has passed.
	ErrExpired = errors.New("token expired")

	// ErrWrongType indicates an access token presented where a refresh token
	// was expected, or vice versa.
	ErrWrongType = errors.New("wrong token type")

	// ErrMalformed indicates a structurally broken token or claims payload.
	ErrMalformed = errors.New("malformed token")
)
