package auth

import "context"

// Principal captures identity metadata propagated through the request context.
type Principal struct {
	// UserID references the backing users row. Demo identities use fixed IDs.
	UserID int64
	// Username is the login name.
	Username string
	// Email is the user's email address.
	Email string
	// FullName is the display name.
	FullName string
	// Department is optional.
	Department string
	// Role is the user's role name, re-read from the store on each resolve.
	Role string
	// SessionID references the active session row when available.
	SessionID string
}

type principalContextKey struct{}

// SetPrincipal stores the authenticated principal on the context for downstream handlers.
func SetPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	return principal, ok
}
