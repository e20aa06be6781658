package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcutil/base58"
)

const (
	// SessionTTL is the default session lifetime.
	SessionTTL = 24 * time.Hour

	// TokenLength is the length of generated session tokens in bytes.
	TokenLength = 32
)

// GenerateSessionToken generates a cryptographically secure random session token.
// Returns: token (hex string), token hash (SHA256 hex) for storage, error.
// The raw token is handed to the client exactly once; only the hash is persisted.
func GenerateSessionToken() (string, string, error) {
	tokenBytes := make([]byte, TokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", "", fmt.Errorf("generate random token: %w", err)
	}

	token := hex.EncodeToString(tokenBytes)

	hash := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(hash[:])

	return token, tokenHash, nil
}

// HashSessionToken hashes a session token for storage/lookup.
// Returns SHA256 hex hash.
func HashSessionToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// TokenFingerprint returns a short base58 digest of a token, safe for logs.
func TokenFingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	fp := base58.Encode(hash[:])
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fp
}

// CalculateExpiry calculates session expiry time from creation. A
// non-positive ttl falls back to SessionTTL.
func CalculateExpiry(createdAt time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return createdAt.Add(ttl)
}

// IsSessionExpired checks if a session has expired as of now.
func IsSessionExpired(expiresAt, now time.Time) bool {
	return !expiresAt.After(now)
}
