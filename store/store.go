package store

import (
	"context"
	"errors"

	"github.com/zlnvch/markwiki/models"
)

// UserStore is the document-store abstraction over the account records.
// Records are keyed by username and written whole.
type UserStore interface {
	// CreateUser inserts a new record. Fails with ErrUserExists if the
	// username is already present.
	CreateUser(ctx context.Context, name string, user models.User) (models.User, error)
	GetUser(ctx context.Context, name string) (models.User, error)
	// UpdateUser overwrites the record unconditionally. No existence check:
	// it can resurrect a deleted key or create a new one.
	UpdateUser(ctx context.Context, name string, user models.User) error
	DeleteUser(ctx context.Context, name string) error
}

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user does not exist")
	// ErrStoreUnavailable distinguishes an unreadable or corrupt backing
	// document from a genuinely empty store.
	ErrStoreUnavailable = errors.New("user store unavailable")
)
