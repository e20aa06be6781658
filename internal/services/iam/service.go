// Package iam owns authentication and session authority for the helpdesk.
//
// Authentication is two-tiered: the credential store is consulted first, and
// when it has no answer (or no store is configured) the built-in demo
// identities are checked. Failures are uniform so callers cannot distinguish
// unknown accounts from wrong passwords.
package iam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/db/models"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for every authentication failure,
	// regardless of cause.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound is returned when a token resolves to no live session.
	ErrSessionNotFound = errors.New("session not found")
)

// Identity is an authenticated helpdesk account.
type Identity struct {
	ID         int64
	Username   string
	Email      string
	FullName   string
	Department string
	Role       string
	// Demo marks identities served from the built-in fallback set.
	Demo bool
	// SessionID is set when the identity came out of ResolveSession.
	SessionID string
}

// Session carries the raw tokens exactly once, at creation. Only token
// hashes are stored; a session cannot be re-read in this form.
type Session struct {
	ID           string
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// Options configures a Service.
type Options struct {
	// SessionTTL defaults to auth.SessionTTL when zero.
	SessionTTL time.Duration
	// BcryptCost defaults to auth.DefaultHashCost when zero.
	BcryptCost int
	// DemoFallback enables the built-in demo identities.
	DemoFallback bool
	// StoreAvailable reports whether a real credential store backs the
	// repositories. Fixed at startup.
	StoreAvailable bool
	Logger         zerolog.Logger
}

// Service implements authentication and session authority over a pair of
// repositories selected at startup. It is stateless and safe for concurrent use.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   *auth.Hasher
	ttl      time.Duration

	demoFallback   bool
	storeAvailable bool
	// demoHash is a bcrypt hash of the shared demo password, generated at
	// startup so demo verification costs the same as a store verification.
	demoHash string
	// dummyHash absorbs a bcrypt comparison when no account matched, keeping
	// response timing independent of account existence.
	dummyHash string

	log zerolog.Logger
}

// NewService wires the authentication service.
func NewService(users repository.UserRepository, sessions repository.SessionRepository, opts Options) (*Service, error) {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = auth.SessionTTL
	}
	hasher := auth.NewHasher(opts.BcryptCost)

	demoHash, err := hasher.Hash(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare demo credentials: %w", err)
	}
	dummyHash, err := hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Service{
		users:          users,
		sessions:       sessions,
		hasher:         hasher,
		ttl:            opts.SessionTTL,
		demoFallback:   opts.DemoFallback,
		storeAvailable: opts.StoreAvailable,
		demoHash:       demoHash,
		dummyHash:      dummyHash,
		log:            opts.Logger,
	}, nil
}

// StoreAvailable reports whether a real credential store is configured.
func (s *Service) StoreAvailable() bool {
	return s.storeAvailable
}

// DemoMode reports whether the service is serving demo identities without a store.
func (s *Service) DemoMode() bool {
	return !s.storeAvailable && s.demoFallback
}

// Authenticate verifies a login (username or email) and secret.
//
// The store tier runs first. Whenever it yields no identity, whether the
// row was missing, the store errored, or the stored secret did not match,
// the demo tier is consulted. Every failure surfaces as
// ErrInvalidCredentials, and a bcrypt comparison is performed on every
// path so timing does not reveal whether the account exists.
func (s *Service) Authenticate(ctx context.Context, login, secret string) (*Identity, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		// Store errors degrade to a miss; the demo tier may still answer.
		s.log.Err(err).Msg("credential store lookup failed")
		user = nil
	}

	if user != nil {
		if s.hasher.Verify(user.PasswordHash, secret) {
			if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
				s.log.Err(err).Int64("user_id", user.ID).Msg("update last login failed")
			}
			return identityFromUser(user), nil
		}
		// A mismatched store secret still falls through to the demo tier.
	}

	if s.demoFallback {
		if demo := s.lookupDemoIdentity(login); demo != nil {
			if s.hasher.Verify(s.demoHash, secret) {
				return demo, nil
			}
			return nil, ErrInvalidCredentials
		}
	}

	if user == nil {
		// No account matched; burn a comparison anyway.
		s.hasher.Verify(s.dummyHash, secret)
	}
	return nil, ErrInvalidCredentials
}

// CreateSession mints a session for an authenticated identity. The returned
// Session carries the raw tokens; only their hashes are persisted. In demo
// mode the session is ephemeral: the write is skipped and the token cannot
// be resolved later.
func (s *Service) CreateSession(ctx context.Context, identity *Identity, userAgent, ipAddress string) (*Session, error) {
	token, tokenHash, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	refreshToken, refreshHash, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	record := &models.UserSession{
		ID:           uuid.New().String(),
		UserID:       identity.ID,
		SessionToken: tokenHash,
		RefreshToken: refreshHash,
		ExpiresAt:    auth.CalculateExpiry(now, s.ttl),
		CreatedAt:    now,
		LastAccessed: now,
	}
	if userAgent != "" {
		record.UserAgent = &userAgent
	}
	if ipAddress != "" {
		record.IPAddress = &ipAddress
	}

	if err := s.sessions.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrStoreUnavailable) {
			s.log.Warn().
				Str("token", auth.TokenFingerprint(token)).
				Msg("session not persisted; store unavailable")
		} else {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	return &Session{
		ID:           record.ID,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    record.ExpiresAt,
	}, nil
}

// ResolveSession maps a raw token back to its identity. Expired, unknown,
// and orphaned sessions all resolve to ErrSessionNotFound. The user row is
// re-read so role changes and deactivation take effect mid-session.
func (s *Service) ResolveSession(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	tokenHash := auth.HashSessionToken(token)
	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		s.log.Err(err).Msg("session lookup failed")
		return nil, ErrSessionNotFound
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if auth.IsSessionExpired(session.ExpiresAt, time.Now()) {
		return nil, ErrSessionNotFound
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		s.log.Err(err).Int64("user_id", session.UserID).Msg("session user lookup failed")
		return nil, ErrSessionNotFound
	}
	if user == nil || !user.IsActive {
		return nil, ErrSessionNotFound
	}

	// Bump last accessed off the request path.
	sessionID := session.ID
	go func() {
		bgCtx := context.Background()
		_ = s.sessions.UpdateLastAccessed(bgCtx, sessionID)
	}()

	identity := identityFromUser(user)
	identity.SessionID = session.ID
	return identity, nil
}

// InvalidateSession removes the session for a token. Unknown tokens are a
// no-op; logout is idempotent.
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, auth.HashSessionToken(token)); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// SweepExpired deletes expired sessions and returns the count removed.
// Sweeping twice in a row deletes nothing the second time.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	if deleted > 0 {
		s.log.Info().Int("deleted", deleted).Msg("swept expired sessions")
	}
	return deleted, nil
}

// ListUsers returns all accounts, or the demo set when no store is configured.
func (s *Service) ListUsers(ctx context.Context) ([]Identity, error) {
	if s.DemoMode() {
		return demoIdentityList(), nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	identities := make([]Identity, 0, len(users))
	for i := range users {
		identities = append(identities, *identityFromUser(&users[i]))
	}
	return identities, nil
}

func identityFromUser(user *models.User) *Identity {
	identity := &Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
	if user.Department != nil {
		identity.Department = *user.Department
	}
	return identity
}
