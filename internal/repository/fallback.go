package repository

import (
	"context"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
)

// FallbackUserRepository is the user repository used when no store DSN is
// configured. Every lookup misses, so authentication falls through to the
// built-in demo identities, and every insert reports the store unavailable.
// It never errors a request path that can degrade instead.
type FallbackUserRepository struct{}

// NewFallbackUserRepository creates the unavailable-mode user repository.
func NewFallbackUserRepository() *FallbackUserRepository {
	return &FallbackUserRepository{}
}

func (r *FallbackUserRepository) Create(ctx context.Context, user *models.User) error {
	return ErrStoreUnavailable
}

func (r *FallbackUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, nil
}

func (r *FallbackUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return nil, nil
}

func (r *FallbackUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return nil
}

func (r *FallbackUserRepository) List(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

// FallbackSessionRepository is the session repository used when no store DSN
// is configured. Sessions cannot be persisted, so resolves always miss; an
// identity established at login survives only inside its own SessionContext.
type FallbackSessionRepository struct{}

// NewFallbackSessionRepository creates the unavailable-mode session repository.
func NewFallbackSessionRepository() *FallbackSessionRepository {
	return &FallbackSessionRepository{}
}

func (r *FallbackSessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	return ErrStoreUnavailable
}

func (r *FallbackSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error) {
	return nil, nil
}

func (r *FallbackSessionRepository) UpdateLastAccessed(ctx context.Context, id string) error {
	return nil
}

func (r *FallbackSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return nil
}

func (r *FallbackSessionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return nil
}

func (r *FallbackSessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	return 0, nil
}

// compile-time interface checks
var (
	_ UserRepository    = (*FallbackUserRepository)(nil)
	_ SessionRepository = (*FallbackSessionRepository)(nil)
	_ UserRepository    = (*BunUserRepository)(nil)
	_ SessionRepository = (*BunSessionRepository)(nil)
)
