// Package http wires the API surface: router, middleware, route registration
// and the server lifecycle.
package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sevabook/infrastructure/audit"
	"sevabook/infrastructure/auth"
	"sevabook/infrastructure/config"
	"sevabook/infrastructure/mailer"
	"sevabook/infrastructure/realtime"
	"sevabook/infrastructure/sqlite"
	"sevabook/shared/web"
)

var ShutdownTimeout = 2 * time.Second

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	DB     *sqlite.DB
	Config *config.Config
	Auth   *auth.Service
	Audit  *audit.Service
	Hub    *realtime.Hub
	Mail   *mailer.Enqueuer
}

// NewServer creates a new http server.
func NewServer(cfg *config.Config, db *sqlite.DB, authSvc *auth.Service, auditSvc *audit.Service, hub *realtime.Hub, enq *mailer.Enqueuer) *Server {
	s := &Server{
		Addr:   cfg.Server.Addr,
		router: chi.NewRouter(),
		DB:     db,
		Config: cfg,
		Auth:   authSvc,
		Audit:  auditSvc,
		Hub:    hub,
		Mail:   enq,
		server: &http.Server{
			MaxHeaderBytes: 1 << 20,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.RegisterRoutes()

	s.server.Handler = s.router
	return s
}

// WithIdentityMiddleware resolves a bearer token when present and attaches
// the identity to the request context. Requests without a token pass through
// anonymous; handlers that require auth reject them.
func (s *Server) WithIdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		id, err := s.Auth.Verify(token)
		if err != nil {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.NewContextWithIdentity(r.Context(), id)))
	})
}

// RequireAuthMiddleware rejects anonymous requests.
func (s *Server) RequireAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFromContext(r.Context()); !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminMiddleware distinguishes a missing/invalid token (401) from a
// valid identity that is not on the allow-list (403). The admin decision is
// recomputed from configuration on every request.
func (s *Server) RequireAdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "sign in required")
			return
		}
		if !s.Config.Auth.IsAdminEmail(id.Email) {
			web.WriteError(w, http.StatusForbidden, web.CodeForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
