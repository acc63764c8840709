// Package server provides the REST API surface for the dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kabu-app/kabu/internal/app"
	"github.com/kabu-app/kabu/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app      *app.App
	server   *http.Server
	logger   *common.Logger
	validate *validator.Validate
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:      a,
		logger:   a.Logger,
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// accountID resolves the account for a request: query param first, then the
// X-Kabu-Account header, then the configured default.
func (s *Server) accountID(r *http.Request) string {
	if acct := r.URL.Query().Get("account"); acct != "" {
		return acct
	}
	if acct := r.Header.Get("X-Kabu-Account"); acct != "" {
		return acct
	}
	return s.app.Config.DefaultAccount
}
