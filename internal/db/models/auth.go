package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents a helpdesk account. Role is one of Employee, IT Support,
// or Admin and is re-read from this row on every session resolve so that
// role changes take effect mid-session.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64      `bun:"id,pk,autoincrement"`
	Username     string     `bun:"username,notnull,unique"`
	Email        string     `bun:"email,notnull,unique"`
	PasswordHash string     `bun:"password_hash,notnull"`
	Role         string     `bun:"role,notnull"`
	FullName     string     `bun:"full_name,notnull"`
	Department   *string    `bun:"department"`
	IsActive     bool       `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	LastLoginAt  *time.Time `bun:"last_login_at"`
}

// UserSession tracks an authenticated session. SessionToken and RefreshToken
// hold SHA256 hashes of the opaque tokens handed to the client; the raw
// tokens are never persisted.
type UserSession struct {
	bun.BaseModel `bun:"table:user_sessions,alias:us"`

	ID           string    `bun:"id,pk"`
	UserID       int64     `bun:"user_id,notnull"`
	SessionToken string    `bun:"session_token,notnull,unique"`
	RefreshToken string    `bun:"refresh_token,notnull"`
	ExpiresAt    time.Time `bun:"expires_at,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	LastAccessed time.Time `bun:"last_accessed,notnull,default:current_timestamp"`
	UserAgent    *string   `bun:"user_agent"`
	IPAddress    *string   `bun:"ip_address"`
}
