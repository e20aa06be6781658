// Package server assembles the helpdesk HTTP API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "helpdesk_session"

// RouterOptions controls the construction of the helpdesk HTTP router.
// The zero value is not useful; IAM is required.
type RouterOptions struct {
	IAM           *iam.Service
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
}

// DefaultCORSOptions returns the shared development CORS policy for the
// dashboard frontend.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-User-Agent", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the helpdesk handlers mounted.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/healthz", healthHandler)
	r.Get("/status", HandleStatus(opts.IAM))

	r.Post("/auth/login", HandleLogin(opts.IAM))
	r.Post("/auth/register", HandleRegister(opts.IAM))

	// Everything below resolves the session cookie; the role gates are
	// explicit guards applied per route group.
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(opts.IAM))

		r.Post("/auth/logout", HandleLogout(opts.IAM))

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleEmployee))
			r.Get("/auth/whoami", HandleWhoAmI())
			r.Get("/dashboard", HandleDashboard())
			r.Post("/tickets", HandleSubmitTicket())
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleITSupport))
			r.Get("/support/queue", HandleSupportQueue())
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleAdmin))
			r.Get("/admin/users", HandleAdminUsers(opts.IAM))
			r.Get("/admin/stats", HandleAdminStats())
		})
	})

	return r
}
