// Package repository exposes persistence operations for helpdesk accounts
// and sessions. Two implementations exist per interface: a Bun-backed one
// used when a store DSN is configured, and a fallback one used when it is
// not. The implementation is selected once at startup.
package repository

import (
	"context"
	"errors"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
)

var (
	// ErrConflict indicates a uniqueness violation (duplicate username or email).
	ErrConflict = errors.New("conflict: record already exists")

	// ErrStoreUnavailable indicates the credential store is not configured.
	// Reads never return it; lookups against the missing store simply miss.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// UserRepository exposes persistence operations for helpdesk accounts.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByLogin matches username or email among active accounts.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.User, error)
}

// SessionRepository exposes persistence operations for sessions.
// Lookup methods return (nil, nil) when no row matches.
type SessionRepository interface {
	Create(ctx context.Context, session *models.UserSession) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error)
	UpdateLastAccessed(ctx context.Context, id string) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired removes sessions whose expiry has passed and returns the
	// number of rows deleted.
	DeleteExpired(ctx context.Context) (int, error)
}
