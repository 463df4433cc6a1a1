// Package server wires the application together: router, middleware, routes,
// and graceful shutdown.
//
// This is the composition root — the one place where concrete types meet.
// main.go reads config and calls New; everything below receives its
// dependencies through constructors and stays unaware of how they were built.
//
// DEPENDENCY CHAIN:
//
//	sqlite.DB → AccountService (with PasswordService + TokenService) → AccountHandler
//
// The handler never touches the database; the service never touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/handler"
	"github.com/sakif/account-service/internal/middleware"
	sqliteRepo "github.com/sakif/account-service/internal/repository/sqlite"
	"github.com/sakif/account-service/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	// TokenTTL bounds issued tokens. Zero means tokens never expire — the
	// service's historical behavior; see the TokenService docs.
	TokenTTL time.Duration
}

// Server owns the router and the database handle. The handle is explicitly
// constructed here and injected downward — no ambient singleton pool — and it
// is closed during graceful shutdown, after in-flight requests drain.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph and registers all routes.
//
// If the store cannot be opened or bootstrapped, New fails and the process
// never starts serving — an account service without its users table would
// fail every request anyway.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// ROUTES:
//
//	GET    /health                    → liveness probe (public)
//	POST   /register                  → create account (public)
//	POST   /login                     → authenticate, issue token (public)
//	GET    /validate/{validation_key} → confirm account ownership (public)
//	PUT    /user/updateUser           → self-service update (bearer token)
//	DELETE /user/deleteUser           → self-service delete (bearer token)
//
// Middleware order: RequestID → RealIP → Recoverer → request logger, then
// RequireAuth only on the /user subtree.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	accountService := service.NewAccountService(s.db, passwords, tokens, s.logger)
	accountHandler := handler.NewAccountHandler(accountService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Post("/register", accountHandler.HandleRegister)
	s.router.Post("/login", accountHandler.HandleLogin)
	s.router.Get("/validate/{validation_key}", accountHandler.HandleValidate)

	s.router.Route("/user", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Put("/updateUser", accountHandler.HandleUpdate)
		r.Delete("/deleteUser", accountHandler.HandleDelete)
	})

	return nil
}

// Handler exposes the configured router. Used by tests to drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds
// to finish, close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
