// Package store provides ownership-scoped data access. Every read or
// write of tenant data takes the owner's user ID and applies it as an
// equality filter alongside any primary-key filter, so rows belonging
// to another user are unreachable rather than merely hidden.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to
	// another owner. The two cases are intentionally indistinguishable.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint (username,
	// email) would be violated.
	ErrConflict = errors.New("record already exists")

	// ErrInvalidOrExpiredToken is returned when a password reset token
	// is unknown, already consumed, or past its expiry.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// Store bundles the per-entity stores over one database handle.
type Store struct {
	Users        *UserStore
	Clients      *ClientStore
	Campaigns    *CampaignStore
	EmailConfigs *EmailConfigStore
}

// New constructs the store set. It is built once at process start and
// passed by reference to the controllers.
func New(db *gorm.DB) *Store {
	return &Store{
		Users:        &UserStore{DB: db},
		Clients:      &ClientStore{DB: db},
		Campaigns:    &CampaignStore{DB: db},
		EmailConfigs: &EmailConfigStore{DB: db},
	}
}
