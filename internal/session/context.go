// Package session provides the per-interaction authentication context used
// by UI-facing callers. Each interaction owns its own Context value; there is
// no process-wide session state.
package session

import (
	"context"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

// Context tracks whether one interaction is authenticated. It starts
// anonymous, becomes authenticated through Login, and returns to anonymous
// through Logout or when its session stops resolving.
//
// Known limitation, kept from the original behavior: when no credential
// store is configured, sessions are never persisted, so a Context holding an
// identity trusts its own memory for the rest of its lifetime. A fresh
// Context can never re-validate a token in that mode.
type Context struct {
	svc      *iam.Service
	token    string
	identity *iam.Identity
}

// NewContext creates an anonymous session context.
func NewContext(svc *iam.Service) *Context {
	return &Context{svc: svc}
}

// Login authenticates the credentials and, on success, establishes a session
// and flips the context to authenticated. On failure the context is unchanged.
func (c *Context) Login(ctx context.Context, login, secret string) error {
	identity, err := c.svc.Authenticate(ctx, login, secret)
	if err != nil {
		return err
	}

	session, err := c.svc.CreateSession(ctx, identity, "", "")
	if err != nil {
		return err
	}

	c.token = session.Token
	c.identity = identity
	return nil
}

// CheckAuthentication reports whether the context is still authenticated.
// The held token is re-resolved so role changes and invalidation elsewhere
// take effect; a failed resolve demotes the context to anonymous, except in
// store-less mode where the in-memory identity is trusted as-is.
func (c *Context) CheckAuthentication(ctx context.Context) bool {
	if c.identity == nil {
		return false
	}

	if !c.svc.StoreAvailable() {
		return true
	}

	identity, err := c.svc.ResolveSession(ctx, c.token)
	if err != nil {
		c.clear()
		return false
	}
	c.identity = identity
	return true
}

// Logout invalidates the session best-effort and clears the context.
// Logging out an anonymous context is a no-op.
func (c *Context) Logout(ctx context.Context) {
	if c.identity == nil {
		return
	}
	_ = c.svc.InvalidateSession(ctx, c.token)
	c.clear()
}

// CurrentIdentity returns the authenticated identity, or nil when anonymous.
func (c *Context) CurrentIdentity() *iam.Identity {
	return c.identity
}

// Token returns the raw session token, or "" when anonymous.
func (c *Context) Token() string {
	return c.token
}

func (c *Context) clear() {
	c.token = ""
	c.identity = nil
}
