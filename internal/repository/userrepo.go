// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/authkit/internal/model"
)

// UserRepository provides access to durable user records. The backing store
// owns username uniqueness: Create must fail with errs.ErrAlreadyExists when
// the username is taken, atomically, so concurrent creates cannot both win.
type UserRepository interface {
	// Create inserts a new user and fills the assigned ID and timestamps.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
