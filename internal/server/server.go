// Package server is the composition root: it wires the store, services,
// and handlers onto the router, and owns startup and graceful shutdown.
// Everything is assembled here so main stays minimal and the rest of the
// codebase never reaches for a global.
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
	"github.com/redis/go-redis/v9"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/cache"
	"github.com/sakif/devconnect/internal/config"
	"github.com/sakif/devconnect/internal/github"
	"github.com/sakif/devconnect/internal/handler"
	"github.com/sakif/devconnect/internal/middleware"
	sqliteRepo "github.com/sakif/devconnect/internal/repository/sqlite"
	"github.com/sakif/devconnect/internal/service"
)

// shutdownTimeout is how long in-flight requests get to finish once a
// shutdown signal arrives.
const shutdownTimeout = 30 * time.Second

// Server owns the router and the process-lifetime resources: the SQLite
// connection and, when configured, the Redis client. Both are closed on
// shutdown.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	rdb    *redis.Client // nil when Redis is not configured
}

// New assembles the full dependency chain: store → services → handlers →
// routes. Each layer receives only the interfaces it needs; the handlers
// never see the database, the services never see HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if cfg.Redis.Addr != "" {
		s.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the services, and binds the
// route table.
//
//	POST   /api/users                       register → token
//	GET    /api/users                       informational probe
//	POST   /api/auth                        login → token
//	GET    /api/auth                        current user          (auth)
//	GET    /api/profiles                    public directory
//	POST   /api/profiles                    upsert own profile    (auth)
//	DELETE /api/profiles                    delete account        (auth)
//	GET    /api/profiles/me                 own profile           (auth)
//	GET    /api/profiles/user/{id}          public profile by owner
//	PUT    /api/profiles/experience         add entry             (auth)
//	DELETE /api/profiles/experience/{id}    remove entry          (auth)
//	PUT    /api/profiles/education          add entry             (auth)
//	DELETE /api/profiles/education/{id}     remove entry          (auth)
//	GET    /api/profiles/github/{id}        repos proxy
//	GET    /health                          liveness
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var profileCache *cache.ProfileCache
	if s.rdb != nil {
		profileCache = cache.NewProfileCache(s.rdb, s.cfg.Redis.CacheTTL)
	}

	userService := service.NewUserService(s.db, s.db, tokens, passwords, s.logger)
	profileService := service.NewProfileService(s.db, profileCache, s.logger)
	githubClient := github.New(s.cfg.GitHub.Token, s.cfg.GitHub.APIBase)

	userHandler := handler.NewUserHandler(userService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, userService, s.logger)
	githubHandler := handler.NewGitHubHandler(githubClient, s.cfg.GitHub.FallbackUser, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.Register)
		r.Get("/users", userHandler.Probe)

		r.Post("/auth", userHandler.Login)
		r.With(requireAuth).Get("/auth", userHandler.Me)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", profileHandler.List)
			r.Get("/user/{id}", profileHandler.ByUserID)
			r.Get("/github", githubHandler.Repos) // falls back to the configured account
			r.Get("/github/{id}", githubHandler.Repos)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", profileHandler.Me)
				r.Post("/", profileHandler.Upsert)
				r.Delete("/", profileHandler.DeleteAccount)
				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{id}", profileHandler.RemoveExperience)
				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{id}", profileHandler.RemoveEducation)
			})
		})
	})

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until a SIGINT/SIGTERM arrives, then drains
// in-flight requests and closes the database (and Redis, when present).
func (s *Server) Start() error {
	defer s.db.Close()
	if s.rdb != nil {
		defer s.rdb.Close()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
		IdleTimeout:  s.cfg.HTTP.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.HTTP.Port),
			slog.String("database", s.cfg.DB.Path),
			slog.Bool("cache", s.rdb != nil),
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
