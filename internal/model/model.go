// Package model defines domain entities used by services and repositories.
package model

import "time"

// User represents an account stored on the server. PwdHash is an encoded
// argon2id string; the plaintext password is never stored.
type User struct {
	ID        int64  // PK, assigned by the database
	Username  string // unique, immutable after creation
	PwdHash   string // self-describing encoded hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenPair collects the access/refresh tokens issued for one user.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry (for diagnostics)
}
