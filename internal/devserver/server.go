// Package devserver is a local implementation of the NoteOnline REST API. It
// stores accounts and notes in SQLite and is used for development and for
// end-to-end tests of the client.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Polystyreeni/NoteOnline/internal/clock"
	"github.com/Polystyreeni/NoteOnline/internal/config"
)

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the wall clock used for sessions, locks and note times.
func WithClock(c clock.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithLogger sets the server logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server serves the API under /api and Prometheus metrics under /metrics.
type Server struct {
	cfg    *config.DevServerConfig
	store  *Store
	clock  clock.Clock
	log    zerolog.Logger
	router *mux.Router
}

// New wires the routes. The store stays owned by the caller.
func New(cfg *config.DevServerConfig, st *Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		clock: clock.Real(),
		log:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.recoverPanics)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.observe)

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Auth endpoints
	api.HandleFunc("/authstatus", s.handleAuthStatus).Methods(http.MethodGet)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	// Note endpoints
	api.HandleFunc("/notes", s.requireAuth(s.handleListNotes)).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.requireAuth(s.handleCreateNote)).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id:[0-9]+}", s.requireAuth(s.handleGetNote)).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id:[0-9]+}", s.requireAuth(s.handleUpdateNote)).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id:[0-9]+}", s.requireAuth(s.handleDeleteNote)).Methods(http.MethodDelete)

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run opens the database, serves on cfg.Addr and shuts down gracefully when
// ctx ends.
func Run(ctx context.Context, cfg *config.DevServerConfig, logger zerolog.Logger) error {
	st, err := Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error().Stack().Err(err).Str("db_path", cfg.DBPath).Msg("open database")
		return err
	}
	defer st.Close()

	srv := New(cfg, st, WithLogger(logger))
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctxShutdown); err != nil {
			logger.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		logger.Info().Msg("Server exited")
		return nil
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error().Stack().Err(err).Msg("HTTP server failed")
			return err
		}
		return nil
	}
}
