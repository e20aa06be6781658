package iam

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
)

// mockUserRepository is a map-backed UserRepository for tests.
type mockUserRepository struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*models.User), nextID: 100}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	m.nextID++
	user.ID = m.nextID
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
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

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

// mockSessionRepository is a map-backed SessionRepository keyed by token hash.
type mockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.UserSession
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*models.UserSession)}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[session.SessionToken]; exists {
		return repository.ErrConflict
	}
	copied := *session
	m.sessions[session.SessionToken] = &copied
	return nil
}

func (m *mockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *mockSessionRepository) UpdateLastAccessed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.ID == id {
			session.LastAccessed = time.Now()
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *mockSessionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, hash)
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int
	now := time.Now()
	for hash, session := range m.sessions {
		if !session.ExpiresAt.After(now) {
			delete(m.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}

func newTestService(t *testing.T, users repository.UserRepository, sessions repository.SessionRepository, storeAvailable bool) *Service {
	t.Helper()
	svc, err := NewService(users, sessions, Options{
		BcryptCost:     4, // MinCost keeps tests fast
		DemoFallback:   true,
		StoreAvailable: storeAvailable,
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, users *mockUserRepository, username, password, role string) *models.User {
	t.Helper()
	hash, err := auth.NewHasher(4).Hash(password)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@company.com",
		PasswordHash: hash,
		Role:         role,
		FullName:     "Test " + username,
		IsActive:     true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthenticateStoreTier(t *testing.T) {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	svc := newTestService(t, users, sessions, true)
	ctx := context.Background()

	seedUser(t, users, "alice", "Hunter2hunter", auth.RoleEmployee)

	t.Run("valid credentials", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "alice", "Hunter2hunter")
		require.NoError(t, err)
		assert.Equal(t, "alice", identity.Username)
		assert.Equal(t, auth.RoleEmployee, identity.Role)
		assert.False(t, identity.Demo)
	})

	t.Run("email works as login", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "alice@company.com", "Hunter2hunter")
		require.NoError(t, err)
		assert.Equal(t, "alice", identity.Username)
	})

	t.Run("wrong password fails uniformly", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown account fails uniformly", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "mallory", "Hunter2hunter")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login records last login", func(t *testing.T) {
		user, err := users.GetByLogin(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.NotNil(t, user.LastLoginAt)
	})
}

func TestAuthenticateDemoFallback(t *testing.T) {
	// No store: fallback repositories, demo tier answers
	svc := newTestService(t, repository.NewFallbackUserRepository(), repository.NewFallbackSessionRepository(), false)
	ctx := context.Background()

	t.Run("demo admin succeeds", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "admin", "password123")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, identity.Role)
		assert.Equal(t, "System Admin", identity.FullName)
		assert.True(t, identity.Demo)
	})

	t.Run("demo login by email", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, "john@company.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "employee1", identity.Username)
	})

	t.Run("demo admin with wrong password fails uniformly", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown login fails uniformly", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticateDemoFallbackDisabled(t *testing.T) {
	svc, err := NewService(repository.NewFallbackUserRepository(), repository.NewFallbackSessionRepository(), Options{
		BcryptCost:   4,
		DemoFallback: false,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "admin", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDemoTierAnswersAfterStorePasswordMismatch(t *testing.T) {
	users := newMockUserRepository()
	svc := newTestService(t, users, newMockSessionRepository(), true)
	ctx := context.Background()

	// A real "admin" row answers for its own secret, but a mismatch does
	// not end the attempt: the demo identity of the same name can still
	// accept the demo secret.
	seedUser(t, users, "admin", "RealAdminPw1", auth.RoleAdmin)

	identity, err := svc.Authenticate(ctx, "admin", "RealAdminPw1")
	require.NoError(t, err)
	assert.False(t, identity.Demo)

	identity, err = svc.Authenticate(ctx, "admin", "password123")
	require.NoError(t, err)
	assert.True(t, identity.Demo)
	assert.Equal(t, auth.RoleAdmin, identity.Role)

	// A secret matching neither tier still fails uniformly.
	_, err = svc.Authenticate(ctx, "admin", "NeitherTierPw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStorePasswordMismatchWithDemoDisabled(t *testing.T) {
	users := newMockUserRepository()
	svc := newTestService(t, users, newMockSessionRepository(), false)
	ctx := context.Background()

	seedUser(t, users, "admin", "RealAdminPw1", auth.RoleAdmin)

	_, err := svc.Authenticate(ctx, "admin", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	svc := newTestService(t, users, sessions, true)
	ctx := context.Background()

	user := seedUser(t, users, "bob", "Passw0rdpass", auth.RoleITSupport)
	identity, err := svc.Authenticate(ctx, "bob", "Passw0rdpass")
	require.NoError(t, err)

	session, err := svc.CreateSession(ctx, identity, "go-test/1.0", "10.0.0.7")
	require.NoError(t, err)
	assert.Len(t, session.Token, 64)
	assert.Len(t, session.RefreshToken, 64)
	assert.NotEqual(t, session.Token, session.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), session.ExpiresAt, time.Minute)

	t.Run("resolve returns the same identity", func(t *testing.T) {
		resolved, err := svc.ResolveSession(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, identity.ID, resolved.ID)
		assert.Equal(t, "bob", resolved.Username)
		assert.Equal(t, session.ID, resolved.SessionID)
	})

	t.Run("raw token is not stored", func(t *testing.T) {
		stored, err := sessions.GetByTokenHash(ctx, auth.HashSessionToken(session.Token))
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotEqual(t, session.Token, stored.SessionToken)
		assert.NotEqual(t, session.RefreshToken, stored.RefreshToken)
	})

	t.Run("resolve re-reads the role", func(t *testing.T) {
		users.mu.Lock()
		users.users[user.ID].Role = auth.RoleAdmin
		users.mu.Unlock()

		resolved, err := svc.ResolveSession(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, resolved.Role)
	})

	t.Run("deactivated user no longer resolves", func(t *testing.T) {
		users.mu.Lock()
		users.users[user.ID].IsActive = false
		users.mu.Unlock()

		_, err := svc.ResolveSession(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		users.mu.Lock()
		users.users[user.ID].IsActive = true
		users.mu.Unlock()
	})

	t.Run("invalidate removes the session", func(t *testing.T) {
		require.NoError(t, svc.InvalidateSession(ctx, session.Token))
		_, err := svc.ResolveSession(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		// idempotent
		require.NoError(t, svc.InvalidateSession(ctx, session.Token))
	})
}

func TestResolveSessionRejectsExpired(t *testing.T) {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	svc := newTestService(t, users, sessions, true)
	ctx := context.Background()

	user := seedUser(t, users, "carol", "Passw0rdpass", auth.RoleEmployee)

	token, tokenHash, err := auth.GenerateSessionToken()
	require.NoError(t, err)
	require.NoError(t, sessions.Create(ctx, &models.UserSession{
		ID:           "expired-session",
		UserID:       user.ID,
		SessionToken: tokenHash,
		RefreshToken: "x",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	_, err = svc.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.ResolveSession(ctx, "unknown-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.ResolveSession(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepExpired(t *testing.T) {
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	svc := newTestService(t, users, sessions, true)
	ctx := context.Background()

	user := seedUser(t, users, "dave", "Passw0rdpass", auth.RoleEmployee)

	for i, age := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
		_, hash, err := auth.GenerateSessionToken()
		require.NoError(t, err)
		require.NoError(t, sessions.Create(ctx, &models.UserSession{
			ID:           uuidLike(i),
			UserID:       user.ID,
			SessionToken: hash,
			RefreshToken: "x",
			ExpiresAt:    time.Now().Add(age),
		}))
	}

	deleted, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	deleted, err = svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func uuidLike(i int) string {
	return string(rune('a'+i)) + "-session"
}

func TestRegisterUser(t *testing.T) {
	users := newMockUserRepository()
	svc := newTestService(t, users, newMockSessionRepository(), true)
	ctx := context.Background()

	valid := RegisterInput{
		Username: "newhire",
		Email:    "newhire@company.com",
		Password: "Welcome2024",
		FullName: "New Hire",
		Role:     auth.RoleEmployee,
	}

	t.Run("creates account", func(t *testing.T) {
		identity, err := svc.RegisterUser(ctx, valid)
		require.NoError(t, err)
		assert.Equal(t, "newhire", identity.Username)

		// stored hash verifies against the chosen password
		user, err := users.GetByLogin(ctx, "newhire")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.True(t, auth.NewHasher(4).Verify(user.PasswordHash, "Welcome2024"))
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		dup := valid
		dup.Email = "other@company.com"
		_, err := svc.RegisterUser(ctx, dup)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*RegisterInput)
		}{
			{"short username", func(in *RegisterInput) { in.Username = "ab" }},
			{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
			{"short password", func(in *RegisterInput) { in.Password = "Ab1" }},
			{"no upper case", func(in *RegisterInput) { in.Password = "welcome2024" }},
			{"no digit", func(in *RegisterInput) { in.Password = "WelcomeHome" }},
			{"admin self-registration", func(in *RegisterInput) { in.Role = auth.RoleAdmin }},
			{"unknown role", func(in *RegisterInput) { in.Role = "Contractor" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				in := valid
				in.Username = "fresh_" + tc.name
				in.Email = tc.name + "@company.com"
				tc.mutate(&in)
				_, err := svc.RegisterUser(ctx, in)
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
			})
		}
	})

	t.Run("unavailable store", func(t *testing.T) {
		demoSvc := newTestService(t, repository.NewFallbackUserRepository(), repository.NewFallbackSessionRepository(), false)
		in := valid
		in.Username = "offline"
		in.Email = "offline@company.com"
		_, err := demoSvc.RegisterUser(ctx, in)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
