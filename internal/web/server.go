// Package web provides the HTTP server and JSON API for the membership
// directory: authentication, member and profile management, and the bulk
// member import.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/koshanqari/kanYini-connect-sub000/internal/config"
	"github.com/koshanqari/kanYini-connect-sub000/internal/importer"
	"github.com/koshanqari/kanYini-connect-sub000/internal/store"
	mw "github.com/koshanqari/kanYini-connect-sub000/internal/web/middleware"
)

// Server is the HTTP server for the membership directory.
type Server struct {
	cfg      *config.Config
	stores   store.Stores
	importer *importer.Executor
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, stores store.Stores) *Server {
	s := &Server{
		cfg:    cfg,
		stores: stores,
		importer: &importer.Executor{
			Accounts:  stores.Users,
			Profiles:  stores.Profiles,
			Education: stores.Education,
		},
		validate: validator.New(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}

	s.router.Use(mw.Authenticate(s.stores.Sessions))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	var importLimiter *rateLimiter
	if s.cfg.Rate.Enabled {
		importLimiter = newRateLimiter(s.cfg.Rate.ImportLimit, time.Minute)
	}

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireUser)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)

			r.Get("/members", s.handleListMembers)
			r.Get("/members/{memberID}", s.handleGetMember)
			r.Get("/members/{memberID}/profile", s.handleGetProfile)
			r.Get("/members/{memberID}/experiences", s.handleListExperiences)
			r.Get("/members/{memberID}/education", s.handleListEducation)
			r.Get("/members/{memberID}/skills", s.handleListSkills)

			// Owner or admin
			r.Put("/members/{memberID}/profile", s.handleUpdateProfile)
			r.Post("/members/{memberID}/experiences", s.handleCreateExperience)
			r.Put("/members/{memberID}/experiences/{entryID}", s.handleUpdateExperience)
			r.Delete("/members/{memberID}/experiences/{entryID}", s.handleDeleteExperience)
			r.Post("/members/{memberID}/education", s.handleCreateEducation)
			r.Put("/members/{memberID}/education/{entryID}", s.handleUpdateEducation)
			r.Delete("/members/{memberID}/education/{entryID}", s.handleDeleteEducation)
			r.Post("/members/{memberID}/skills", s.handleAddSkill)
			r.Delete("/members/{memberID}/skills/{entryID}", s.handleRemoveSkill)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)

				r.Patch("/members/{memberID}", s.handleUpdateMember)
				r.Delete("/members/{memberID}", s.handleDeleteMember)

				if importLimiter != nil {
					r.With(importLimiter.middleware).Post("/members/import", s.handleImport)
				} else {
					r.Post("/members/import", s.handleImport)
				}
				r.Get("/members/import/template", s.handleImportTemplate)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if enableCSP {
				// JSON API: no scripts, styles, or frames should ever load
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	// Check if we have tokens left
	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RemoteAddr has already been rewritten by TrustedRealIP
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
