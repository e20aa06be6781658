package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/repository"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

// memUserRepository and memSessionRepository back the service under test.
type memUserRepository struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func (m *memUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = int64(len(m.users) + 1)
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (m *memUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if (user.Username == login || user.Email == login) && user.IsActive {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memUserRepository) UpdateLastLogin(ctx context.Context, id int64) error { return nil }

func (m *memUserRepository) List(ctx context.Context) ([]models.User, error) { return nil, nil }

type memSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.UserSession
}

func (m *memSessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.SessionToken] = &copied
	return nil
}

func (m *memSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[tokenHash]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, nil
}

func (m *memSessionRepository) UpdateLastAccessed(ctx context.Context, id string) error { return nil }

func (m *memSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *memSessionRepository) DeleteByUserID(ctx context.Context, userID int64) error { return nil }

func (m *memSessionRepository) DeleteExpired(ctx context.Context) (int, error) { return 0, nil }

func newStoreBackedService(t *testing.T) (*iam.Service, *memUserRepository, *memSessionRepository) {
	t.Helper()
	users := &memUserRepository{users: make(map[int64]*models.User)}
	sessions := &memSessionRepository{sessions: make(map[string]*models.UserSession)}

	hash, err := auth.NewHasher(4).Hash("Passw0rdpass")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &models.User{
		Username:     "alice",
		Email:        "alice@company.com",
		PasswordHash: hash,
		Role:         auth.RoleEmployee,
		FullName:     "Alice",
		IsActive:     true,
	}))

	svc, err := iam.NewService(users, sessions, iam.Options{
		BcryptCost:     4,
		DemoFallback:   true,
		StoreAvailable: true,
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc, users, sessions
}

func TestContextStartsAnonymous(t *testing.T) {
	svc, _, _ := newStoreBackedService(t)
	sc := NewContext(svc)

	assert.False(t, sc.CheckAuthentication(context.Background()))
	assert.Nil(t, sc.CurrentIdentity())
	assert.Empty(t, sc.Token())

	// logging out while anonymous is a no-op
	sc.Logout(context.Background())
	assert.False(t, sc.CheckAuthentication(context.Background()))
}

func TestContextLoginLogout(t *testing.T) {
	svc, _, _ := newStoreBackedService(t)
	sc := NewContext(svc)
	ctx := context.Background()

	require.NoError(t, sc.Login(ctx, "alice", "Passw0rdpass"))

	assert.True(t, sc.CheckAuthentication(ctx))
	identity := sc.CurrentIdentity()
	require.NotNil(t, identity)
	assert.Equal(t, "alice", identity.Username)
	assert.NotEmpty(t, sc.Token())

	sc.Logout(ctx)
	assert.False(t, sc.CheckAuthentication(ctx))
	assert.Nil(t, sc.CurrentIdentity())
	assert.Empty(t, sc.Token())
}

func TestContextFailedLoginLeavesStateUnchanged(t *testing.T) {
	svc, _, _ := newStoreBackedService(t)
	sc := NewContext(svc)
	ctx := context.Background()

	err := sc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, iam.ErrInvalidCredentials)
	assert.False(t, sc.CheckAuthentication(ctx))

	// a failed re-login after a success also keeps the prior session
	require.NoError(t, sc.Login(ctx, "alice", "Passw0rdpass"))
	token := sc.Token()
	err = sc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, iam.ErrInvalidCredentials)
	assert.True(t, sc.CheckAuthentication(ctx))
	assert.Equal(t, token, sc.Token())
}

func TestContextSeesRoleChangeOnRecheck(t *testing.T) {
	svc, users, _ := newStoreBackedService(t)
	sc := NewContext(svc)
	ctx := context.Background()

	require.NoError(t, sc.Login(ctx, "alice", "Passw0rdpass"))

	users.mu.Lock()
	users.users[1].Role = auth.RoleITSupport
	users.mu.Unlock()

	require.True(t, sc.CheckAuthentication(ctx))
	assert.Equal(t, auth.RoleITSupport, sc.CurrentIdentity().Role)
}

func TestContextDemotesWhenSessionInvalidatedElsewhere(t *testing.T) {
	svc, _, _ := newStoreBackedService(t)
	sc := NewContext(svc)
	ctx := context.Background()

	require.NoError(t, sc.Login(ctx, "alice", "Passw0rdpass"))
	token := sc.Token()

	// another actor invalidates the session
	require.NoError(t, svc.InvalidateSession(ctx, token))

	assert.False(t, sc.CheckAuthentication(ctx))
	assert.Nil(t, sc.CurrentIdentity())
}

func TestContextExpiredSessionDemotes(t *testing.T) {
	svc, _, sessions := newStoreBackedService(t)
	sc := NewContext(svc)
	ctx := context.Background()

	require.NoError(t, sc.Login(ctx, "alice", "Passw0rdpass"))

	// force-expire the stored session
	sessions.mu.Lock()
	for _, s := range sessions.sessions {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}
	sessions.mu.Unlock()

	assert.False(t, sc.CheckAuthentication(ctx))
}

func TestContextStoreUnavailableTrustsMemory(t *testing.T) {
	svc, err := iam.NewService(
		repository.NewFallbackUserRepository(),
		repository.NewFallbackSessionRepository(),
		iam.Options{BcryptCost: 4, DemoFallback: true, Logger: zerolog.Nop()},
	)
	require.NoError(t, err)
	ctx := context.Background()

	sc := NewContext(svc)
	require.NoError(t, sc.Login(ctx, "admin", "password123"))

	// resolving the token would miss, but the held identity is trusted
	assert.True(t, sc.CheckAuthentication(ctx))
	assert.Equal(t, auth.RoleAdmin, sc.CurrentIdentity().Role)

	// a fresh context cannot re-validate the same token
	fresh := NewContext(svc)
	assert.False(t, fresh.CheckAuthentication(ctx))

	sc.Logout(ctx)
	assert.False(t, sc.CheckAuthentication(ctx))
}
