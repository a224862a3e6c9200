// Package server exposes the rotation workflow as a JSON HTTP API for a
// browser front-end. Each request runs the core calls sequentially; the only
// shared state is the registry of signed-in sessions.
package server

import (
	"context"
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/aaearon/tabrotate/internal/config"
	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// Core is the subset of tableau.Service the HTTP adapter drives.
type Core interface {
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error)
	SignOut(ctx context.Context, session *models.Session) error
	Enumerate(ctx context.Context, session *models.Session) (*models.Inventory, error)
	UpdateGroup(ctx context.Context, session *models.Session, group models.ConnectionGroup, update models.ConnectionUpdate) []models.UpdateOutcome
}

// Server holds the HTTP adapter state.
type Server struct {
	core     Core
	logger   *zap.Logger
	cookies  *sessions.CookieStore
	sessions *registry
}

// New creates a Server. The session secret signs the session cookie.
func New(cfg *config.ServerConfig, core Core, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	key := sha256.Sum256([]byte(cfg.SessionSecret))
	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}

	return &Server{
		core:     core,
		logger:   logger,
		cookies:  store,
		sessions: newRegistry(cfg.SessionTTL),
	}
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/signout", s.handleSignOut)
	mux.HandleFunc("GET /api/groups", s.handleGroups)
	mux.HandleFunc("POST /api/groups/update", s.handleUpdateGroup)

	return RequestID(RequestLogger(s.logger)(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
