package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

// LoginRequest represents credentials for username/password authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
	Demo       bool   `json:"demo,omitempty"`
}

// LoginResponse represents the response from POST /auth/login
type LoginResponse struct {
	User      UserResponse `json:"user"`
	ExpiresAt int64        `json:"expires_at"`
}

// RegisterRequest represents a self-service registration
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func userResponse(identity *iam.Identity) UserResponse {
	return UserResponse{
		ID:         identity.ID,
		Username:   identity.Username,
		Email:      identity.Email,
		FullName:   identity.FullName,
		Department: identity.Department,
		Role:       identity.Role,
		Demo:       identity.Demo,
	}
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleLogin authenticates users with username/password and sets the
// session cookie. Every failure is the same 401 body.
func HandleLogin(svc *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Missing username or password")
			return
		}

		identity, err := svc.Authenticate(ctx, req.Username, req.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		session, err := svc.CreateSession(ctx, identity, r.UserAgent(), r.RemoteAddr)
		if err != nil {
			log.Err(err).Str("username", identity.Username).Msg("create session failed")
			writeError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		setSessionCookie(w, r, session.Token, session.ExpiresAt)
		writeJSON(w, http.StatusOK, LoginResponse{
			User:      userResponse(identity),
			ExpiresAt: session.ExpiresAt.Unix(),
		})
	}
}

// HandleLogout invalidates the session and expires the cookie.
// Logout without a session still clears the cookie.
func HandleLogout(svc *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			if err := svc.InvalidateSession(r.Context(), cookie.Value); err != nil {
				log.Err(err).Msg("invalidate session failed")
			}
		}

		setSessionCookie(w, r, "", time.Unix(0, 0))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Logged out"))
	}
}

// HandleRegister creates a new account from a self-service registration.
func HandleRegister(svc *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		identity, err := svc.RegisterUser(r.Context(), iam.RegisterInput{
			Username:   req.Username,
			Email:      req.Email,
			Password:   req.Password,
			FullName:   req.FullName,
			Department: req.Department,
			Role:       req.Role,
		})
		if err != nil {
			var vErr *iam.ValidationError
			switch {
			case errors.As(err, &vErr):
				writeError(w, http.StatusUnprocessableEntity, vErr.Error())
			case errors.Is(err, iam.ErrConflict):
				writeError(w, http.StatusConflict, "Username or email already exists")
			case errors.Is(err, iam.ErrStoreUnavailable):
				writeError(w, http.StatusServiceUnavailable, "Registration requires a database connection")
			default:
				log.Err(err).Msg("register user failed")
				writeError(w, http.StatusInternalServerError, "Failed to create account")
			}
			return
		}

		writeJSON(w, http.StatusCreated, userResponse(identity))
	}
}

// HandleWhoAmI returns the authenticated principal.
func HandleWhoAmI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{
			ID:         principal.UserID,
			Username:   principal.Username,
			Email:      principal.Email,
			FullName:   principal.FullName,
			Department: principal.Department,
			Role:       principal.Role,
		})
	}
}

// StatusResponse reports store availability so the frontend can show the
// demo-mode banner.
type StatusResponse struct {
	Status         string `json:"status"`
	StoreAvailable bool   `json:"store_available"`
	DemoMode       bool   `json:"demo_mode"`
}

// HandleStatus reports service mode for the dashboard banner.
func HandleStatus(svc *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			Status:         "ok",
			StoreAvailable: svc.StoreAvailable(),
			DemoMode:       svc.DemoMode(),
		})
	}
}
