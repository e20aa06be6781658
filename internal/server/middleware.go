package server

import (
	"errors"
	"net/http"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

// SessionMiddleware resolves the session cookie into a principal on the
// request context. Requests without a valid session pass through anonymous;
// the role guards decide whether that is acceptable.
func SessionMiddleware(svc *iam.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := svc.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, iam.ErrSessionNotFound) {
					writeError(w, http.StatusInternalServerError, "Internal error")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			principal := auth.Principal{
				UserID:     identity.ID,
				Username:   identity.Username,
				Email:      identity.Email,
				FullName:   identity.FullName,
				Department: identity.Department,
				Role:       identity.Role,
				SessionID:  identity.SessionID,
			}
			next.ServeHTTP(w, r.WithContext(auth.SetPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole is an explicit guard: the request must carry an authenticated
// principal whose role satisfies the required role. Anonymous requests get
// 401; authenticated ones below the gate get 403.
func RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !auth.HasPermission(principal.Role, requiredRole) {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
